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

package emulator

import (
	"flag"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/openxemu/xenium/emulator/lpc"
	"github.com/openxemu/xenium/emulator/lpc/bus"
	"github.com/openxemu/xenium/emulator/monitor"
	"github.com/openxemu/xenium/emulator/peripheral"
	"github.com/openxemu/xenium/emulator/peripheral/flash"
	"github.com/openxemu/xenium/emulator/peripheral/modchip"
	"github.com/openxemu/xenium/emulator/peripheral/spi"
	"github.com/openxemu/xenium/emulator/snapshot"
	"github.com/spf13/afero"
)

var flashImage = "flash.img"

var (
	snapshotName string
	headless     bool
)

func init() {
	if p, ok := os.LookupEnv("XENIUM_DEFAULT_FLASH_PATH"); ok {
		flashImage = p
	}

	flag.StringVar(&flashImage, "flash", flashImage, "Path to flash image")
	flag.StringVar(&snapshotName, "snapshot", "xenium.snap", "Path to snapshot file")
	flag.BoolVar(&headless, "headless", false, "Run without the terminal monitor")
}

func Start() {
	fs := afero.NewOsFs()

	mc := &modchip.Device{}
	peripherals := []peripheral.Peripheral{
		mc,
		&flash.Device{
			Fs:        fs,
			ImageName: flashImage,
			Bank:      mc,
		},
		&spi.Device{
			Chip: mc,
			Peer: &spi.Loopback{},
		},
	}

	b := bus.New(peripherals)
	defer b.Close()
	b.Reset()

	// Genuine xenium?
	if v := b.InByte(modchip.RegisterBase); v != modchip.Signature {
		log.Printf("unexpected modchip signature: 0x%02X", v)
	}

	if headless {
		headlessLoop(b)
		return
	}
	monitorLoop(fs, b, mc, peripherals)
}

func headlessLoop(b *bus.Bus) {
	signChan := make(chan os.Signal, 1)
	signal.Notify(signChan, os.Interrupt)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := b.Step(1); err != nil {
				log.Print(err)
				return
			}
		case <-signChan:
			return
		}
	}
}

func monitorLoop(fs afero.Fs, b *bus.Bus, mc *modchip.Device, peripherals []peripheral.Peripheral) {
	mon, err := monitor.New()
	if err != nil {
		log.Print(err)
		return
	}
	defer mon.Close()

	// The screen owns the terminal now.
	log.SetOutput(ioutil.Discard)
	defer log.SetOutput(os.Stderr)

	var stats lpc.Stats

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := b.Step(1); err != nil {
				return
			}

			s := b.GetStats()
			stats.PortReads += s.PortReads
			stats.PortWrites += s.PortWrites
			stats.FlashReads += s.FlashReads
			stats.FlashWrites += s.FlashWrites
			mon.Update(mc.Status(), stats)
		case cmd := <-mon.Commands():
			switch cmd.Kind {
			case monitor.CmdQuit:
				return
			case monitor.CmdSelectBank:
				b.OutByte(modchip.RegisterBase+1, register1Value(mc.Status(), cmd.Bank))
			case monitor.CmdCycleLED:
				b.OutByte(modchip.RegisterBase, (mc.Status().LED+1)&7)
			case monitor.CmdToggleJumper:
				mc.SetRecoveryJumper(mc.Status().Recovery)
			case monitor.CmdSaveSnapshot:
				snapshot.Save(fs, snapshotName, peripherals)
			case monitor.CmdRestoreSnapshot:
				snapshot.Restore(fs, snapshotName, peripherals)
			}
		}
	}
}

// register1Value rebuilds a full register 1 write from the current SPI
// output lines and the wanted bank. A write always replaces the whole
// selector, so the lines must be carried over explicitly.
func register1Value(s modchip.State, bank byte) byte {
	val := bank & 0xF
	if s.SCK {
		val |= 1 << 6
	}
	if s.CS {
		val |= 1 << 5
	}
	if s.MOSI {
		val |= 1 << 4
	}
	return val
}
