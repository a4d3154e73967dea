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

// Package lpc describes the host side of the modchip attachment: a bus
// with byte-wide port IO and a flat flash memory window. Only single
// byte accessors exist so devices never see partial or multi-byte
// transactions.
package lpc

import (
	"github.com/openxemu/xenium/emulator/memory"
)

type Stats struct {
	PortReads,
	PortWrites,
	FlashReads,
	FlashWrites uint64
}

type Bus interface {
	InByte(port uint16) byte
	OutByte(port uint16, data byte)

	ReadByte(addr memory.Pointer) byte
	WriteByte(addr memory.Pointer, data byte)

	GetStats() Stats
	GetMappedIODevice(port uint16) memory.IO
	GetMappedMemoryDevice(addr memory.Pointer) memory.Memory

	InstallIODevice(device memory.IO, from, to uint16) error
	InstallIODeviceAt(device memory.IO, port ...uint16) error
	InstallMemoryDevice(device memory.Memory, from, to memory.Pointer) error
	InstallMemoryDeviceAt(device memory.Memory, addr ...memory.Pointer) error
}
