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

// Package modchip emulates a Xenium flash modchip as seen from the host:
// two byte-wide IO registers controlling an RGB LED, a bit-banged SPI
// interface and the flash bank selector.
package modchip

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/openxemu/xenium/emulator/lpc"
)

const (
	RegisterBase = 0xEE
	Register0    = 0
	Register1    = 1

	// Register 0 always reads back this value. Software probes it to
	// confirm a genuine Xenium is attached.
	Signature = 0x55
)

// ErrProtocolViolation marks accesses the hardware treats as undefined:
// reserved bits set, unknown register index or an undefined bank
// selector. There is no degraded mode behind these.
var ErrProtocolViolation = errors.New("modchip: protocol violation")

// State is the complete device state. All fields roundtrip through
// snapshots verbatim.
type State struct {
	// SPI lines. SCK, CS and MOSI are driven by register writes,
	// MISO1 and MISO4 by the attached SPI peer.
	SCK   bool `json:"sck"`
	CS    bool `json:"cs"`
	MOSI  bool `json:"mosi"`
	MISO1 bool `json:"miso_1"` // pin 1
	MISO4 bool `json:"miso_4"` // pin 4

	LED         byte `json:"led"`          // XXXXXBGR
	BankControl byte `json:"bank_control"` // determines flash address mask

	Recovery bool `json:"recovery"` // false is active
}

type Device struct {
	state State
}

func (m *Device) Install(b lpc.Bus) error {
	m.Reset()

	// 0xEE & 0xEF
	return b.InstallIODeviceAt(m, RegisterBase, RegisterBase+1)
}

func (m *Device) Name() string {
	return "Xenium Modchip"
}

func (m *Device) Reset() {
	m.state = State{
		BankControl: BankOSLoader, // regular cromwell bootloader
		Recovery:    true,         // inactive
		LED:         1,            // red
	}
}

func (m *Device) Step(int) error {
	return nil
}

// WriteRegister updates device state from a software write. Reserved
// bits are never silently masked; setting one is a protocol violation.
func (m *Device) WriteRegister(reg, data byte) error {
	switch reg {
	case Register0:
		if data>>3 != 0 {
			return fmt.Errorf("%w: reserved LED bits set: 0x%02X", ErrProtocolViolation, data)
		}
		m.state.LED = data
		log.Printf("modchip: set LED color(s) to %s", ledString(data))
	case Register1:
		if data&0x80 != 0 {
			return fmt.Errorf("%w: reserved bit 7 set: 0x%02X", ErrProtocolViolation, data)
		}
		m.state.SCK = data&0x40 != 0
		m.state.CS = data&0x20 != 0
		m.state.MOSI = data&0x10 != 0
		m.state.BankControl = data & 0xF
	default:
		return fmt.Errorf("%w: unknown register index %d", ErrProtocolViolation, reg)
	}
	return nil
}

// ReadRegister computes the value software observes. Register 0 is the
// fixed signature. Register 1 packs recovery, the MISO lines and the
// bank selector; its layout is intentionally different from the write
// side.
func (m *Device) ReadRegister(reg byte) (byte, error) {
	switch reg {
	case Register0:
		return Signature, nil
	case Register1:
		var val byte
		if m.state.Recovery {
			val |= 1 << 7
		}
		if m.state.MISO1 {
			val |= 1 << 5
		}
		if m.state.MISO4 {
			val |= 1 << 4
		}
		return val | m.state.BankControl, nil
	default:
		return 0, fmt.Errorf("%w: unknown register index %d", ErrProtocolViolation, reg)
	}
}

// In and Out adapt the registers to the bus. The dispatcher only routes
// our two ports here and never splits accesses, so a register level
// error is an invariant breach, not a runtime condition.

func (m *Device) In(port uint16) byte {
	val, err := m.ReadRegister(byte(port - RegisterBase))
	if err != nil {
		log.Panic(err)
	}
	log.Printf("modchip: read 0x%02X from IO register 0x%X", val, port)
	return val
}

func (m *Device) Out(port uint16, data byte) {
	log.Printf("modchip: write 0x%02X to IO register 0x%X", data, port)
	if err := m.WriteRegister(byte(port-RegisterBase), data); err != nil {
		log.Panic(err)
	}
}

// BankControl reports the current selector. The flash device calls this
// on every access; translation is lazy, a register write only latches
// the selector.
func (m *Device) BankControl() byte {
	return m.state.BankControl
}

// Status returns a copy of the device state for inspection.
func (m *Device) Status() State {
	return m.state
}

// SetMISO is the SPI peer's side of the interface.
func (m *Device) SetMISO(pin1, pin4 bool) {
	m.state.MISO1 = pin1
	m.state.MISO4 = pin4
}

// SetRecoveryJumper models the physical recovery jumper. Software can
// only observe the flag, never change it.
func (m *Device) SetRecoveryJumper(active bool) {
	m.state.Recovery = !active
}

func (m *Device) SaveState(w io.Writer) error {
	return json.NewEncoder(w).Encode(&m.state)
}

func (m *Device) LoadState(r io.Reader) error {
	return json.NewDecoder(r).Decode(&m.state)
}

func ledString(led byte) string {
	var colors []string
	if led&1 != 0 {
		colors = append(colors, "Red")
	}
	if led&2 != 0 {
		colors = append(colors, "Green")
	}
	if led&4 != 0 {
		colors = append(colors, "Blue")
	}
	if colors == nil {
		return "Off"
	}
	return strings.Join(colors, " ")
}
