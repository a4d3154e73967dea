/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package monitor renders modchip status in the terminal and feeds key
// presses back to the emulation loop as commands.
package monitor

import (
	"fmt"

	"github.com/gdamore/tcell"
	"github.com/openxemu/xenium/emulator/lpc"
	"github.com/openxemu/xenium/emulator/peripheral/modchip"
)

type CommandKind int

const (
	CmdQuit CommandKind = iota
	CmdToggleJumper
	CmdSelectBank
	CmdCycleLED
	CmdSaveSnapshot
	CmdRestoreSnapshot
)

type Command struct {
	Kind CommandKind
	Bank byte
}

type (
	statusEvent struct {
		status modchip.State
		stats  lpc.Stats
	}
	quitEvent struct{}
)

// XXXXXBGR to terminal color.
var ledPalette = [8]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorYellow,
	tcell.ColorBlue,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorWhite,
}

type Monitor struct {
	screen   tcell.Screen
	commands chan Command
	quitChan chan struct{}
}

func New() (*Monitor, error) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	screen.HideCursor()
	screen.DisableMouse()
	screen.Clear()

	m := &Monitor{
		screen:   screen,
		commands: make(chan Command, 16),
		quitChan: make(chan struct{}),
	}
	go m.eventLoop()
	return m, nil
}

// Commands delivers key presses translated to emulator commands.
func (m *Monitor) Commands() <-chan Command {
	return m.commands
}

// Update redraws the status screen. Safe to call from the emulation
// loop; drawing happens on the monitor's own goroutine.
func (m *Monitor) Update(status modchip.State, stats lpc.Stats) {
	m.screen.PostEvent(tcell.NewEventInterrupt(statusEvent{status, stats}))
}

func (m *Monitor) Close() error {
	m.screen.PostEventWait(tcell.NewEventInterrupt(quitEvent{}))
	<-m.quitChan
	m.screen.Fini()
	return nil
}

func (m *Monitor) eventLoop() {
	for {
		switch ev := m.screen.PollEvent().(type) {
		case *tcell.EventKey:
			m.handleKey(ev)
		case *tcell.EventResize:
			m.screen.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case statusEvent:
				m.draw(data.status, data.stats)
			case quitEvent:
				close(m.quitChan)
				return
			}
		}
	}
}

func (m *Monitor) handleKey(ev *tcell.EventKey) {
	var cmd Command
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		cmd = Command{Kind: CmdQuit}
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r >= '0' && r <= '9':
			cmd = Command{Kind: CmdSelectBank, Bank: byte(r - '0')}
		case r == 'r':
			cmd = Command{Kind: CmdSelectBank, Bank: modchip.BankRecovery}
		case r == 'j':
			cmd = Command{Kind: CmdToggleJumper}
		case r == 'l':
			cmd = Command{Kind: CmdCycleLED}
		case r == 's':
			cmd = Command{Kind: CmdSaveSnapshot}
		case r == 'u':
			cmd = Command{Kind: CmdRestoreSnapshot}
		case r == 'q':
			cmd = Command{Kind: CmdQuit}
		default:
			return
		}
	default:
		return
	}

	select {
	case m.commands <- cmd:
	default: // emulation loop is behind, drop it
	}
}

func (m *Monitor) draw(status modchip.State, stats lpc.Stats) {
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	title := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)

	m.screen.Clear()
	m.drawText(1, 0, title, "Xenium Modchip Monitor")

	led := tcell.StyleDefault.Background(ledPalette[status.LED&7])
	m.drawText(1, 2, style, "LED")
	m.drawText(13, 2, led, "  ")

	m.drawText(1, 3, style, fmt.Sprintf("Bank        %-2d %s %s",
		status.BankControl, modchip.BankMask(status.BankControl), modchip.BankDescription(status.BankControl)))

	m.drawText(1, 4, style, fmt.Sprintf("SPI         SCK=%s CS=%s MOSI=%s MISO1=%s MISO4=%s",
		line(status.SCK), line(status.CS), line(status.MOSI), line(status.MISO1), line(status.MISO4)))

	recovery := "inactive"
	if !status.Recovery {
		recovery = "ACTIVE"
	}
	m.drawText(1, 5, style, "Recovery    "+recovery)

	m.drawText(1, 6, style, fmt.Sprintf("Traffic     port r/w %d/%d, flash r/w %d/%d",
		stats.PortReads, stats.PortWrites, stats.FlashReads, stats.FlashWrites))

	m.drawText(1, 8, style, "0-9 bank, (r)ecovery bank, (j)umper, (l)ed, (s)ave, restore with u, (q)uit")
	m.screen.Show()
}

func (m *Monitor) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}

func line(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
