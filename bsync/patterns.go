package bsync

import "github.com/ftl/tetra-downlink/pdu"

// Training sequence patterns and their burst offsets, bit-exact per
// EN 300 392-2 §9.4.4.3.
var (
	ntsBegin = pdu.BitsFromInts(0, 0, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1)
	ntsEnd   = pdu.BitsFromInts(1, 0, 1, 1, 0, 1, 1, 1, 0, 0)
	nts1     = pdu.BitsFromInts(1, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0)
	nts2     = pdu.BitsFromInts(0, 1, 1, 1, 1, 0, 1, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0)
	syncTS   = pdu.BitsFromInts(1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1)
)

const (
	ntsBeginOffset = 0
	ntsEndOffset   = 500
	nts1Offset     = 244
	nts2Offset     = 244
	syncTSOffset   = 214

	// burstSize is the fixed length of every TETRA downlink burst, §3.
	burstSize = 510

	// missedBurstTolerance bounds how many bursts may be missed before
	// synchronization is declared lost, §4.1.
	missedBurstTolerance = 50

	// burstTypeRejectThreshold is the maximum acceptable minimum Hamming
	// score for burst-type classification; above this the burst is
	// dropped entirely, §4.1 / §7.
	burstTypeRejectThreshold = 5
)

// hammingScore returns the Hamming distance between buffer[offset:offset+len(pattern)]
// and pattern.
func hammingScore(buffer pdu.Bits, pattern pdu.Bits, offset int) int {
	score := 0
	for i, want := range pattern {
		if buffer.GetBit(offset+i) != want {
			score++
		}
	}
	return score
}
