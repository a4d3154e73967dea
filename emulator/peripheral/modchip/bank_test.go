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
	"testing"

	"github.com/openxemu/xenium/emulator/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var translateTests = []struct {
	bank byte
	mask string
}{
	{BankTSOP, "XXX"},
	{BankOSLoader, "110"},
	{BankOS, "10X"},
	{BankUser256kB1, "000"},
	{BankUser256kB2, "001"},
	{BankUser256kB3, "010"},
	{BankUser256kB4, "011"},
	{BankUser512kB1, "00X"},
	{BankUser512kB2, "01X"},
	{BankUser1MB, "0XX"},
	{BankRecovery, "111"},
}

// applyMask is an independent bit-by-bit reference for the mask
// semantics over address bits 20, 19 and 18.
func applyMask(addr memory.Pointer, mask string) memory.Pointer {
	out := addr
	for i, c := range mask {
		bit := uint(20 - i)
		switch c {
		case '1':
			out |= 1 << bit
		case '0':
			out &^= 1 << bit
		}
	}
	return out
}

func TestTranslateMaskTable(t *testing.T) {
	addrs := []memory.Pointer{
		0x000000, 0x03FFFF, 0x040000, 0x0C0000, 0x100000,
		0x140000, 0x180000, 0x1C0000, 0x155555, 0x1FFFFF,
	}

	for _, tt := range translateTests {
		assert.Equal(t, tt.mask, BankMask(tt.bank))

		for _, addr := range addrs {
			phys, err := TranslateFlashAddress(addr, tt.bank)
			require.NoError(t, err)
			assert.Equal(t, applyMask(addr, tt.mask), phys, "bank %d addr 0x%X", tt.bank, addr)

			// Bits outside 20..18 pass through untouched.
			assert.Equal(t, uint32(addr)&^0x1C0000, uint32(phys)&^0x1C0000)
		}
	}
}

func TestTranslateIdempotent(t *testing.T) {
	for _, tt := range translateTests {
		for _, addr := range []memory.Pointer{0x000000, 0x0ABCDE, 0x140000, 0x1FFFFF} {
			once, err := TranslateFlashAddress(addr, tt.bank)
			require.NoError(t, err)
			twice, err := TranslateFlashAddress(once, tt.bank)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		}
	}
}

func TestTranslateTSOPIsIdentity(t *testing.T) {
	for _, addr := range []memory.Pointer{0, 0x3FFFF, 0x140000, 0x1C0001, 0x1FFFFF} {
		phys, err := TranslateFlashAddress(addr, BankTSOP)
		require.NoError(t, err)
		assert.Equal(t, addr, phys)
	}
}

func TestTranslateRegions(t *testing.T) {
	// User bank 1 of the 256kB scheme forces bits 20..18 low.
	phys, err := TranslateFlashAddress(0x100000, BankUser256kB1)
	require.NoError(t, err)
	assert.Equal(t, memory.Pointer(0x000000), phys)

	// Recovery forces them all high, whatever comes in.
	phys, err = TranslateFlashAddress(0x1FFFFF, BankRecovery)
	require.NoError(t, err)
	assert.Equal(t, memory.Pointer(0x1FFFFF), phys)

	phys, err = TranslateFlashAddress(0x000000, BankRecovery)
	require.NoError(t, err)
	assert.Equal(t, memory.Pointer(0x1C0000), phys)
}

func TestTranslateUndefinedSelector(t *testing.T) {
	for bank := byte(NumBanks); bank <= 0xF; bank++ {
		_, err := TranslateFlashAddress(0x1234, bank)
		assert.ErrorIs(t, err, ErrProtocolViolation)
	}

	assert.Equal(t, "undefined", BankDescription(0xB))
	assert.Equal(t, "---", BankMask(0xF))
}
