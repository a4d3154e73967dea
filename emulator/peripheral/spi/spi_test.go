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

package spi

import (
	"testing"

	"github.com/openxemu/xenium/emulator/peripheral/modchip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setLines bit-bangs the SPI output lines the way software does, with a
// register 1 write keeping the current bank selector.
func setLines(t *testing.T, mc *modchip.Device, sck, cs, mosi bool) {
	val := mc.Status().BankControl
	if sck {
		val |= 1 << 6
	}
	if cs {
		val |= 1 << 5
	}
	if mosi {
		val |= 1 << 4
	}
	require.NoError(t, mc.WriteRegister(modchip.Register1, val))
}

func TestLoopbackExchange(t *testing.T) {
	mc := &modchip.Device{}
	mc.Reset()

	dev := &Device{Chip: mc, Peer: &Loopback{}}
	dev.Reset()

	step := func() {
		require.NoError(t, dev.Step(1))
	}

	// Assert CS (active low) and clock out 1, 0, 1.
	setLines(t, mc, false, false, true)
	step()
	setLines(t, mc, true, false, true)
	step() // rising edge, shifts in 1
	setLines(t, mc, false, false, false)
	step()
	setLines(t, mc, true, false, false)
	step() // loopback now echoes the previous bit

	s := mc.Status()
	assert.True(t, s.MISO1)
	assert.True(t, s.MISO4)

	setLines(t, mc, false, false, true)
	step()
	setLines(t, mc, true, false, true)
	step() // previous bit was 0

	s = mc.Status()
	assert.False(t, s.MISO1)
	assert.False(t, s.MISO4)
}

func TestPeerIgnoredWhileDeselected(t *testing.T) {
	mc := &modchip.Device{}
	mc.Reset()

	dev := &Device{Chip: mc, Peer: &Loopback{}}
	dev.Reset()

	// CS deasserted: clock edges must not reach the peer.
	setLines(t, mc, false, true, true)
	require.NoError(t, dev.Step(1))
	setLines(t, mc, true, true, true)
	require.NoError(t, dev.Step(1))

	s := mc.Status()
	assert.False(t, s.MISO1)
	assert.False(t, s.MISO4)
}
