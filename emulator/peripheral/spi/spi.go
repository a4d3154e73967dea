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

// Package spi drives the modchip's MISO input lines from the SPI output
// lines software bit-bangs through register 1. The chip only stores
// line states; sampling the clock and chip select is done here.
package spi

import (
	"github.com/openxemu/xenium/emulator/lpc"
	"github.com/openxemu/xenium/emulator/peripheral/modchip"
)

// Peer is the device on the far end of the SPI lines. Clock is called
// once per rising SCK edge while CS is asserted (low) and returns the
// state it drives onto the two MISO pins.
type Peer interface {
	Clock(mosi bool) (miso1, miso4 bool)
}

// Loopback echoes MOSI onto both MISO pins, one clock late. Useful for
// software self-tests.
type Loopback struct {
	last bool
}

func (l *Loopback) Clock(mosi bool) (bool, bool) {
	out := l.last
	l.last = mosi
	return out, out
}

type Device struct {
	Chip *modchip.Device
	Peer Peer

	lastSCK bool
}

func (m *Device) Install(lpc.Bus) error {
	return nil
}

func (m *Device) Name() string {
	return "SPI Peer"
}

func (m *Device) Reset() {
	m.lastSCK = false
}

func (m *Device) Step(int) error {
	s := m.Chip.Status()
	if !s.CS && s.SCK && !m.lastSCK {
		m.Chip.SetMISO(m.Peer.Clock(s.MOSI))
	}
	m.lastSCK = s.SCK
	return nil
}
