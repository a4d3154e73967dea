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

// Package flash is the modchip's backing flash chip. Every access is
// remapped through the modchip's bank translator before it touches the
// chip, so the same logical address can land in different physical
// regions depending on the latched selector.
package flash

import (
	"fmt"
	"log"

	"github.com/openxemu/xenium/emulator/lpc"
	"github.com/openxemu/xenium/emulator/memory"
	"github.com/openxemu/xenium/emulator/peripheral/modchip"
	"github.com/spf13/afero"
)

// BankSelector is a consistent snapshot source for the current bank
// selector, normally the modchip itself.
type BankSelector interface {
	BankControl() byte
}

type Device struct {
	mem   []byte
	dirty bool

	Fs        afero.Fs
	ImageName string
	Bank      BankSelector
}

func (m *Device) Install(b lpc.Bus) error {
	var err error
	if m.mem, err = afero.ReadFile(m.Fs, m.ImageName); err != nil {
		return err
	}
	if len(m.mem) != memory.FlashSize {
		return fmt.Errorf("flash: image %s is 0x%X bytes, want 0x%X", m.ImageName, len(m.mem), memory.FlashSize)
	}
	return b.InstallMemoryDevice(m, 0, memory.FlashSize-1)
}

func (m *Device) Name() string {
	return "Flash Storage"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

// Close writes modified flash content back to the image.
func (m *Device) Close() error {
	if !m.dirty {
		return nil
	}
	m.dirty = false
	return afero.WriteFile(m.Fs, m.ImageName, m.mem, 0644)
}

func (m *Device) translate(addr memory.Pointer) memory.Pointer {
	phys, err := modchip.TranslateFlashAddress(addr, m.Bank.BankControl())
	if err != nil {
		log.Panic(err)
	}
	return phys
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	return m.mem[m.translate(addr)]
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
	m.mem[m.translate(addr)] = data
	m.dirty = true
}
