package lowermac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/defrag"
	"github.com/ftl/tetra-downlink/fec"
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/tetratime"
	"github.com/ftl/tetra-downlink/uppermac"
)

type recordingLLC struct {
	sdus     []pdu.Bits
	channels []macstate.LogicalChannel
}

func (r *recordingLLC) Deliver(sdu pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address) {
	r.sdus = append(r.sdus, sdu)
	r.channels = append(r.channels, channel)
}

// encodeBlock runs the forward FEC chain (CRC append, Viterbi encode,
// puncture, interleave, scramble) that is the exact inverse of
// decodeSchChain, for building test fixtures.
func encodeBlock(payload pdu.Bits, length, a int, seed uint32) pdu.Bits {
	withCRC := fec.CRC16Append(payload)
	mother := fec.ViterbiEncode(withCRC)
	punctured := fec.PunctureRate23(mother, length)
	interleaved := fec.Interleave(punctured, length, a)
	return fec.Descramble(interleaved, seed)
}

func place(frame pdu.Bits, offset int, bits pdu.Bits) {
	for i, b := range bits {
		frame[offset+i] = b
	}
}

// buildSyncPayload lays out the 89-bit SYNC field positions used by
// uppermac.ProcessSync (see lowermac.go's BSCH sizing note).
func buildSyncPayload(colorCode byte, tn, fn, mn int, mcc, mnc uint16, sdu pdu.Bits) pdu.Bits {
	payload := make(pdu.Bits, 89)
	setValue := func(pos, nbits int, value uint32) {
		for i := 0; i < nbits; i++ {
			payload[pos+i] = byte((value >> uint(nbits-1-i)) & 1)
		}
	}
	setValue(4, 6, uint32(colorCode))
	setValue(10, 2, uint32(tn-1))
	setValue(12, 5, uint32(fn))
	setValue(17, 6, uint32(mn))
	setValue(31, 10, uint32(mcc))
	setValue(41, 14, uint32(mnc))
	place(payload, 60, sdu)
	return payload
}

// TestHandleSBDeliversBschAndUpdatesCell mirrors scenario S1.
func TestHandleSBDeliversBschAndUpdatesCell(t *testing.T) {
	cell := cellctx.New()
	llc := &recordingLLC{}
	demux := uppermac.New(cell, defrag.New(nil, nil), macstate.NewUsageMarkerEncryptionMap(), llc, nil, nil, nil, nil, true)
	var syncedTime tetratime.Time
	demux.TimeSync = func(t tetratime.Time) { syncedTime = t }

	m := New(cell, demux, nil, nil)

	sdu := make(pdu.Bits, 29)
	for i := range sdu {
		sdu[i] = byte((i + 1) % 2)
	}
	syncPayload := buildSyncPayload(10, 3, 18, 5, 208, 1, sdu)

	frame := make(pdu.Bits, 510)
	place(frame, 94, encodeBlock(syncPayload, 120, 11, fec.SyncScramblingCode))

	aachPayload := pdu.Concat(bitsOf(0, 3), bitsOf(0, 6), make(pdu.Bits, 5))
	aachEncoded := fec.Descramble(fec.ReedMullerEncode(aachPayload), cell.ScramblingCode)
	place(frame, 252, aachEncoded)

	schhdPayload := make(pdu.Bits, 124)
	place(frame, 282, encodeBlock(schhdPayload, 216, 101, cell.ScramblingCode))

	m.HandleBurst(frame, 0 /* bsync.SB */, tetratime.New())

	assert.Len(t, llc.sdus, 1)
	assert.Equal(t, macstate.BSCH, llc.channels[0])
	assert.Equal(t, sdu, llc.sdus[0])
	assert.Equal(t, tetratime.Time{TN: 3, FN: 18, MN: 5}, syncedTime)
	assert.Equal(t, cellctx.ScramblingCodeFor(208, 1, 10), cell.ScramblingCode)
}

func bitsOf(value uint32, nbits int) pdu.Bits {
	result := make(pdu.Bits, nbits)
	for i := 0; i < nbits; i++ {
		result[nbits-1-i] = byte((value >> uint(i)) & 1)
	}
	return result
}
