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

package bus

import (
	"testing"

	"github.com/openxemu/xenium/emulator/memory"
	"github.com/openxemu/xenium/emulator/peripheral"
	"github.com/openxemu/xenium/emulator/peripheral/modchip"
	"github.com/stretchr/testify/assert"
)

func TestPortDispatch(t *testing.T) {
	mc := &modchip.Device{}
	b := New([]peripheral.Peripheral{mc})
	b.Reset()

	// Only the two modchip ports are mapped.
	assert.Equal(t, byte(modchip.Signature), b.InByte(modchip.RegisterBase))
	assert.Equal(t, byte(0xFF), b.InByte(modchip.RegisterBase+2))
	assert.Equal(t, byte(0xFF), b.InByte(0x3F8))

	b.OutByte(modchip.RegisterBase+1, modchip.BankUser1MB)
	assert.Equal(t, byte(modchip.BankUser1MB), mc.Status().BankControl)

	// Writes to unmapped ports go to the dummy device.
	b.OutByte(0x80, 0x42)
	assert.Equal(t, byte(modchip.BankUser1MB), mc.Status().BankControl)
}

func TestUnmappedMemory(t *testing.T) {
	b := New(nil)
	assert.Equal(t, byte(0xFF), b.ReadByte(0))
	b.WriteByte(0, 0x42) // swallowed by the dummy device
	assert.Equal(t, byte(0xFF), b.ReadByte(0))

	// Addresses wrap to the flash window.
	assert.Equal(t, byte(0xFF), b.ReadByte(memory.FlashSize+5))
}

func TestStats(t *testing.T) {
	mc := &modchip.Device{}
	b := New([]peripheral.Peripheral{mc})
	b.Reset()

	b.InByte(modchip.RegisterBase)
	b.InByte(modchip.RegisterBase + 1)
	b.OutByte(modchip.RegisterBase+1, 0)
	b.ReadByte(0x100)

	s := b.GetStats()
	assert.Equal(t, uint64(2), s.PortReads)
	assert.Equal(t, uint64(1), s.PortWrites)
	assert.Equal(t, uint64(1), s.FlashReads)

	// GetStats resets the counters.
	assert.Equal(t, uint64(0), b.GetStats().PortReads)
}

func TestStep(t *testing.T) {
	mc := &modchip.Device{}
	b := New([]peripheral.Peripheral{mc})
	b.Reset()
	assert.NoError(t, b.Step(1))
}
