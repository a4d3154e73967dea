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

package modchip

import (
	"fmt"

	"github.com/openxemu/xenium/emulator/memory"
)

// Bank selector values as latched in the low nibble of register 1.
const (
	BankTSOP       = 0x0 // onboard flash, chip passes through
	BankOSLoader   = 0x1 // XeniumOS Cromwell loader
	BankOS         = 0x2 // XeniumOS
	BankUser256kB1 = 0x3
	BankUser256kB2 = 0x4
	BankUser256kB3 = 0x5
	BankUser256kB4 = 0x6
	BankUser512kB1 = 0x7
	BankUser512kB2 = 0x8
	BankUser1MB    = 0x9
	BankRecovery   = 0xA

	NumBanks = 0xB
)

// Each selector maps to a mask over address bits 20, 19 and 18, in that
// order. '1' forces the bit high, '0' forces it low and 'X' passes the
// incoming bit through.
type bankMask struct {
	mask        string
	description string
}

var bankMasks = [NumBanks]bankMask{
	BankTSOP:       {"XXX", "TSOP passthrough"},
	BankOSLoader:   {"110", "XeniumOS loader"},
	BankOS:         {"10X", "XeniumOS"},
	BankUser256kB1: {"000", "User bank 1 (256kB)"},
	BankUser256kB2: {"001", "User bank 2 (256kB)"},
	BankUser256kB3: {"010", "User bank 3 (256kB)"},
	BankUser256kB4: {"011", "User bank 4 (256kB)"},
	BankUser512kB1: {"00X", "User bank 1 (512kB)"},
	BankUser512kB2: {"01X", "User bank 2 (512kB)"},
	BankUser1MB:    {"0XX", "User bank (1MB)"},
	BankRecovery:   {"111", "Recovery"},
}

// BankDescription returns a human readable name for a selector value.
func BankDescription(bankControl byte) string {
	if bankControl >= NumBanks {
		return "undefined"
	}
	return bankMasks[bankControl].description
}

// BankMask returns the selector's mask template over bits 20..18.
func BankMask(bankControl byte) string {
	if bankControl >= NumBanks {
		return "---"
	}
	return bankMasks[bankControl].mask
}

func maskFlashAddress(addr memory.Pointer, mask string) (memory.Pointer, error) {
	translation := addr
	for i := 0; i < 3; i++ {
		bitval := memory.Pointer(1) << (20 - i)
		switch mask[i] {
		case '1':
			translation |= bitval
		case '0':
			translation &^= bitval
		case 'X':
			// leave untouched
		default:
			return 0, fmt.Errorf("%w: malformed flash mask %q", ErrProtocolViolation, mask)
		}
	}
	return translation, nil
}

// TranslateFlashAddress remaps a flash address according to the bank
// selector. It is pure and idempotent: forced bits stay forced and
// passthrough bits are never touched, so translating an already
// translated address is a no-op.
func TranslateFlashAddress(addr memory.Pointer, bankControl byte) (memory.Pointer, error) {
	if bankControl >= NumBanks {
		return 0, fmt.Errorf("%w: undefined bank selector 0x%X", ErrProtocolViolation, bankControl)
	}
	return maskFlashAddress(addr, bankMasks[bankControl].mask)
}
