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
	"errors"
	"log"

	"github.com/openxemu/xenium/emulator/lpc"
	"github.com/openxemu/xenium/emulator/memory"
	"github.com/openxemu/xenium/emulator/peripheral"
)

const MaxPeripherals = 32

type Bus struct {
	stats       lpc.Stats
	peripherals []peripheral.Peripheral

	iomap         [0x10000]byte
	ioPeripherals [MaxPeripherals]memory.IO

	mmap           [memory.FlashSize]byte
	memPeripherals [MaxPeripherals]memory.Memory
}

func New(peripherals []peripheral.Peripheral) *Bus {
	b := &Bus{peripherals: peripherals}

	dummyIO := &memory.DummyIO{}
	for i := range b.ioPeripherals[:] {
		b.ioPeripherals[i] = dummyIO
	}

	dummyMem := &memory.DummyMemory{}
	for i := range b.memPeripherals[:] {
		b.memPeripherals[i] = dummyMem
	}

	for i := 1; i <= len(peripherals); i++ {
		if dev, ok := peripherals[i-1].(memory.IO); ok {
			b.ioPeripherals[i] = dev
		}
		if dev, ok := peripherals[i-1].(memory.Memory); ok {
			b.memPeripherals[i] = dev
		}
	}

	b.installPeripherals()
	return b
}

func (b *Bus) installPeripherals() {
	for _, d := range b.peripherals {
		if err := d.Install(b); err != nil {
			log.Print("Failed to install peripheral: ", err)
		}
	}
}

func (b *Bus) Close() {
	for _, d := range b.peripherals {
		if cd, ok := d.(peripheral.PeripheralCloser); ok {
			if err := cd.Close(); err != nil {
				log.Print("Failed to close peripheral: ", err)
			}
		}
	}
}

func (b *Bus) Reset() {
	log.Print("Bus reset!")

	for _, d := range b.peripherals {
		d.Reset()
	}
}

func (b *Bus) Step(cycles int) error {
	for _, d := range b.peripherals {
		if err := d.Step(cycles); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) Peripherals() []peripheral.Peripheral {
	return b.peripherals
}

func (b *Bus) GetStats() lpc.Stats {
	s := b.stats
	b.stats = lpc.Stats{}
	return s
}

func (b *Bus) GetMappedMemoryDevice(addr memory.Pointer) memory.Memory {
	return b.memPeripherals[b.mmap[addr]]
}

func (b *Bus) GetMappedIODevice(port uint16) memory.IO {
	return b.ioPeripherals[b.iomap[port]]
}

func (b *Bus) InByte(port uint16) byte {
	b.stats.PortReads++
	return b.GetMappedIODevice(port).In(port)
}

func (b *Bus) OutByte(port uint16, data byte) {
	b.stats.PortWrites++
	b.GetMappedIODevice(port).Out(port, data)
}

func (b *Bus) ReadByte(addr memory.Pointer) byte {
	b.stats.FlashReads++
	addr &= memory.FlashMask
	return b.GetMappedMemoryDevice(addr).ReadByte(addr)
}

func (b *Bus) WriteByte(addr memory.Pointer, data byte) {
	b.stats.FlashWrites++
	addr &= memory.FlashMask
	b.GetMappedMemoryDevice(addr).WriteByte(addr, data)
}

func (b *Bus) InstallMemoryDevice(device memory.Memory, from, to memory.Pointer) error {
	for i, d := range b.memPeripherals[:] {
		if d == device {
			for from <= to {
				b.mmap[from] = byte(i)
				from++
			}
			return nil
		}
	}
	return errors.New("could not find peripheral")
}

func (b *Bus) InstallMemoryDeviceAt(device memory.Memory, addr ...memory.Pointer) error {
	for _, a := range addr {
		if err := b.InstallMemoryDevice(device, a, a); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) InstallIODevice(device memory.IO, from, to uint16) error {
	for i, d := range b.ioPeripherals[:] {
		if d == device {
			for from <= to {
				b.iomap[from] = byte(i)
				from++
			}
			return nil
		}
	}
	return errors.New("could not find peripheral")
}

func (b *Bus) InstallIODeviceAt(device memory.IO, port ...uint16) error {
	for _, a := range port {
		if err := b.InstallIODevice(device, a, a); err != nil {
			return err
		}
	}
	return nil
}
