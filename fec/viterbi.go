package fec

import (
	"math/bits"

	"github.com/ftl/tetra-downlink/pdu"
)

// Viterbi 1/4, 16-state decoder (constraint length 5: the input bit plus a
// 4-bit memory), per §4.2. The mother code
// has four generator polynomials (octal-reversed) {10011, 11101, 10111,
// 11011}; each is a 5-bit tap pattern over the encoder's current input bit
// and its 4-bit shift register, giving the 16 states named in the spec.
const (
	ViterbiMemory   = 4
	ViterbiStates   = 1 << ViterbiMemory
	ViterbiTailBits = ViterbiMemory
)

var viterbiPolynomials = [4]int{0b10011, 0b11101, 0b10111, 0b11011}

const infiniteMetric = 1 << 30

// ViterbiEncode runs the rate-1/4 convolutional encoder over info, flushing
// with ViterbiTailBits zero bits, and returns the 4x-length mother code.
func ViterbiEncode(info pdu.Bits) pdu.Bits {
	state := 0
	padded := info.Append(make(pdu.Bits, ViterbiTailBits))
	out := make(pdu.Bits, 0, padded.Size()*4)
	for _, bit := range padded {
		window := (int(bit) << ViterbiMemory) | state
		for _, taps := range viterbiPolynomials {
			out = append(out, byte(bits.OnesCount(uint(taps&window))&1))
		}
		state = ((state << 1) | int(bit)) & (ViterbiStates - 1)
	}
	return out
}

type viterbiTraceEntry struct {
	prev, bit int
}

// ViterbiDecode performs hard-decision traceback over mother, a rate-1/4
// encoded bit stream, recovering infoLen information bits (the tail is
// decoded but discarded). The decoder assumes, as the encoder guarantees,
// that the trellis starts and ends in state 0.
func ViterbiDecode(mother pdu.Bits, infoLen int) pdu.Bits {
	steps := infoLen + ViterbiTailBits
	if mother.Size() < steps*4 {
		return nil
	}

	metrics := make([]int, ViterbiStates)
	for i := 1; i < ViterbiStates; i++ {
		metrics[i] = infiniteMetric
	}

	trace := make([][ViterbiStates]viterbiTraceEntry, steps)

	for t := 0; t < steps; t++ {
		var recv [4]byte
		for k := 0; k < 4; k++ {
			recv[k] = mother.GetBit(t*4 + k)
		}

		newMetrics := make([]int, ViterbiStates)
		for i := range newMetrics {
			newMetrics[i] = infiniteMetric
		}

		for s := 0; s < ViterbiStates; s++ {
			if metrics[s] >= infiniteMetric {
				continue
			}
			for bit := 0; bit < 2; bit++ {
				window := (bit << ViterbiMemory) | s
				dist := 0
				for k, taps := range viterbiPolynomials {
					expected := byte(bits.OnesCount(uint(taps&window)) & 1)
					if expected != recv[k] {
						dist++
					}
				}
				next := ((s << 1) | bit) & (ViterbiStates - 1)
				candidate := metrics[s] + dist
				if candidate < newMetrics[next] {
					newMetrics[next] = candidate
					trace[t][next] = viterbiTraceEntry{prev: s, bit: bit}
				}
			}
		}
		metrics = newMetrics
	}

	state := 0
	decoded := make(pdu.Bits, steps)
	for t := steps - 1; t >= 0; t-- {
		entry := trace[t][state]
		decoded[t] = byte(entry.bit)
		state = entry.prev
	}
	return decoded[:infoLen]
}
