package fec

import "github.com/ftl/tetra-downlink/pdu"

// Deinterleave reverses the block interleaver of §4.2: the bit originally
// at position i is found, after interleaving, at position (a*i) mod length
// of the received block. a and length must be coprime for this to be a
// bijection (true for every (length,a) pair used by this decoder: (120,11),
// (216,101), (432,103)).
func Deinterleave(data pdu.Bits, length, a int) pdu.Bits {
	out := make(pdu.Bits, length)
	for i := 0; i < length; i++ {
		out[i] = data.GetBit((a * i) % length)
	}
	return out
}

// Interleave applies the forward block interleaving permutation; it exists
// for tests (and fixture construction) to establish that Deinterleave is
// its exact inverse, per §8 invariant 4.
func Interleave(data pdu.Bits, length, a int) pdu.Bits {
	out := make(pdu.Bits, length)
	for i := 0; i < length; i++ {
		out[(a*i)%length] = data.GetBit(i)
	}
	return out
}
