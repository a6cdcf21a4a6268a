package fec

import "github.com/ftl/tetra-downlink/pdu"

// DepunctureRate23 expands a punctured bit stream back up to the
// rate-1/4 mother code length required by the Viterbi decoder, per §4.2.
// The n input bits are spread evenly across the mother-code length (input
// bit i goes to position i*motherLen/n), the same distribution
// PunctureRate23 uses; this is not the puncturing pattern of EN 300 392-2
// §8.2.3.1.3. All other positions are filled with the neutral symbol 0.
func DepunctureRate23(input pdu.Bits, motherLen int) pdu.Bits {
	n := input.Size()
	out := make(pdu.Bits, motherLen)
	if n == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		pos := i * motherLen / n
		out[pos] = input.GetBit(i)
	}
	return out
}

// PunctureRate23 is the forward operation: it selects the n transmitted
// bits out of a rate-1/4 mother codeword using the same uniform
// distribution DepunctureRate23 assumes when reinserting neutral symbols.
// It exists to build self-consistent encoder-side test fixtures.
func PunctureRate23(mother pdu.Bits, n int) pdu.Bits {
	motherLen := mother.Size()
	out := make(pdu.Bits, n)
	if n == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		pos := i * motherLen / n
		out[i] = mother.GetBit(pos)
	}
	return out
}

// MotherCodeLength returns the rate-1/4 mother-code length for a payload
// of infoBits information bits plus the encoder's flush tail of
// ViterbiTailBits zero bits.
func MotherCodeLength(infoBits int) int {
	return 4 * (infoBits + ViterbiTailBits)
}
