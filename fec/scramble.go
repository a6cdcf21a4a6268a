package fec

import "github.com/ftl/tetra-downlink/pdu"

// SyncScramblingCode is the fixed seed used for the SB's BSCH block,
// per §4.2: "The sync block uses the predefined seed 0x0003".
const SyncScramblingCode uint32 = 0x0003

// scramblerPrimPoly realizes the 32-bit linear feedback shift register
// described in EN 300 392-2 §8.2.5: the scrambling sequence generator
// polynomial x^32+x^26+x^23+x^22+x^16+x^12+x^11+x^10+x^8+x^7+x^5+x^4+x^2+x+1.
const scramblerPrimPoly uint32 = (1 << 26) | (1 << 23) | (1 << 22) | (1 << 16) |
	(1 << 12) | (1 << 11) | (1 << 10) | (1 << 8) | (1 << 7) | (1 << 5) | (1 << 4) | (1 << 2) | (1 << 1) | 1

// scramblingSequence generates n bits of the PRBS scrambling sequence
// seeded with the given scrambling code.
func scramblingSequence(seed uint32, n int) pdu.Bits {
	reg := seed
	if reg == 0 {
		reg = 1
	}
	out := make(pdu.Bits, n)
	for i := 0; i < n; i++ {
		out[i] = byte(reg & 1)
		feedback := parity32(reg & scramblerPrimPoly)
		reg = (reg >> 1) | (feedback << 31)
	}
	return out
}

func parity32(v uint32) uint32 {
	v ^= v >> 16
	v ^= v >> 8
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v & 1
}

// Descramble XORs block with the PRBS generated from seed. Scrambling and
// descrambling are the same XOR operation, per §4.2.
func Descramble(block pdu.Bits, seed uint32) pdu.Bits {
	return block.XOR(scramblingSequence(seed, block.Size()))
}
