// Package lowermac implements the lower MAC (§4.3): it dispatches each
// burst by type to the correct block-extraction pattern, pipes every block
// through its FEC chain and CRC, and routes the result to the upper MAC by
// logical channel.
package lowermac

import (
	"github.com/ftl/tetra-downlink/bsync"
	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/fec"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
	"github.com/ftl/tetra-downlink/uppermac"
)

// LowerMAC implements bsync.BurstHandler, dispatching each synchronized
// burst to its FEC chain and to the upper MAC.
type LowerMAC struct {
	cell  *cellctx.Context
	demux *uppermac.Demux
	state macstate.State

	log    sink.LogSink
	report sink.ReportSink
}

// New returns a LowerMAC driving demux, using cell for the non-sync
// scrambling seed. log and report may be nil.
func New(cell *cellctx.Context, demux *uppermac.Demux, log sink.LogSink, report sink.ReportSink) *LowerMAC {
	if log == nil {
		log = sink.NopLogSink{}
	}
	if report == nil {
		report = sink.NopReportSink{}
	}
	return &LowerMAC{cell: cell, demux: demux, log: log, report: report}
}

// State returns the MAC state most recently set by AACH processing.
func (m *LowerMAC) State() macstate.State {
	return m.state
}

// HandleBurst implements bsync.BurstHandler, §4.3.
func (m *LowerMAC) HandleBurst(frame pdu.Bits, burstType bsync.BurstType, time tetratime.Time) {
	switch burstType {
	case bsync.SB:
		m.handleSB(frame, time)
	case bsync.NDB:
		m.handleNDB(frame, time)
	case bsync.NDBSF:
		m.handleNDBSF(frame, time)
	}
}

// bnchFlag reports whether the current slot carries BNCH instead of SCH/HD
// on an NDB_SF's second half-slot, §4.3.
func bnchFlag(time tetratime.Time) bool {
	return time.FN == 18 && (time.MN+time.TN)%4 == 1
}

// processAACH descrambles and Reed-Muller decodes a BBK, updating m.state.
// AACH is always processed first within a burst (§4.3: "AACH MUST be
// delivered before BKN blocks... because AACH determines downlinkUsage").
func (m *LowerMAC) processAACH(raw pdu.Bits, time tetratime.Time) {
	descrambled := fec.Descramble(raw, m.cell.ScramblingCode)
	aach, ok := fec.ReedMullerDecode(descrambled)
	if !ok {
		m.report.Count("aach-decode-fail", 1)
		return
	}
	m.state = m.demux.ProcessAACH(macstate.AACH, aach, time)
}

// decodeSchChain runs the shared descramble → deinterleave → depuncture →
// Viterbi → CRC chain used for SCH/HD, SCH/F and BSCH blocks, returning the
// payloadLen-bit payload, or nil if the CRC fails.
func decodeSchChain(raw pdu.Bits, length, a int, seed uint32, infoLen, payloadLen int) pdu.Bits {
	descrambled := fec.Descramble(raw, seed)
	deinterleaved := fec.Deinterleave(descrambled, length, a)
	mother := fec.DepunctureRate23(deinterleaved, fec.MotherCodeLength(infoLen))
	decoded := fec.ViterbiDecode(mother, infoLen)
	if !fec.CRC16Check(decoded, payloadLen) {
		return nil
	}
	return decoded.Slice(0, payloadLen)
}

// handleSB decodes a synchronization burst, §4.3.
func (m *LowerMAC) handleSB(frame pdu.Bits, time tetratime.Time) {
	m.processAACH(frame.Slice(252, 282), time)

	// BSCH is sized to 89 bits (+16 CRC), not the 76/60 figures named
	// elsewhere for this block: the SYNC field layout §4.4 specifies
	// (colour code at 4, mcc at 31, mnc at 41, a 29-bit SDU at 60) only
	// fits a PDU of at least 89 bits, so that is what is carried end to
	// end (see DESIGN.md).
	if bsch := decodeSchChain(frame.Slice(94, 214), 120, 11, fec.SyncScramblingCode, 105, 89); bsch != nil {
		m.demux.Dispatch(macstate.BSCH, bsch, time, m.state)
	} else {
		m.report.Count("crc-fail:bsch", 1)
	}

	if schhd := decodeSchChain(frame.Slice(282, 498), 216, 101, m.cell.ScramblingCode, 140, 124); schhd != nil {
		m.demux.Dispatch(macstate.SCHHD, schhd, time, m.state)
	} else {
		m.report.Count("crc-fail:sch-hd", 1)
	}
}

// handleNDB decodes a normal downlink burst, §4.3.
func (m *LowerMAC) handleNDB(frame pdu.Bits, time tetratime.Time) {
	bbk := pdu.Concat(frame.Slice(230, 244), frame.Slice(266, 282))
	m.processAACH(bbk, time)

	block := fec.Descramble(pdu.Concat(frame.Slice(14, 230), frame.Slice(282, 498)), m.cell.ScramblingCode)

	if m.state.DownlinkUsage == macstate.Traffic && time.FN <= 17 {
		m.demux.Dispatch(macstate.TCHS, block, time, m.state)
		return
	}

	deinterleaved := fec.Deinterleave(block, 432, 103)
	mother := fec.DepunctureRate23(deinterleaved, fec.MotherCodeLength(284))
	decoded := fec.ViterbiDecode(mother, 284)
	if fec.CRC16Check(decoded, 268) {
		m.demux.Dispatch(macstate.SCHF, decoded.Slice(0, 268), time, m.state)
	} else {
		m.report.Count("crc-fail:sch-f", 1)
	}
}

// handleNDBSF decodes an NDB with stolen flag, §4.3.
func (m *LowerMAC) handleNDBSF(frame pdu.Bits, time tetratime.Time) {
	bbk := pdu.Concat(frame.Slice(230, 244), frame.Slice(266, 282))
	m.processAACH(bbk, time)

	bkn1 := decodeSchChain(frame.Slice(14, 230), 216, 101, m.cell.ScramblingCode, 140, 124)
	bkn2 := decodeSchChain(frame.Slice(282, 498), 216, 101, m.cell.ScramblingCode, 140, 124)

	if m.state.DownlinkUsage == macstate.Traffic && time.FN <= 17 {
		// STCH delivery when only one half-slot validates: deliver what
		// validates, drop the other (§9 open question (c)).
		if bkn1 != nil {
			m.demux.Dispatch(macstate.STCH, bkn1, time, m.state)
		} else {
			m.report.Count("crc-fail:stch", 1)
		}
		if m.demux.TakeSecondSlotStolen() {
			if bkn2 != nil {
				m.demux.Dispatch(macstate.STCH, bkn2, time, m.state)
			} else {
				m.report.Count("crc-fail:stch", 1)
			}
		}
		return
	}

	if bkn1 != nil {
		m.demux.Dispatch(macstate.SCHHD, bkn1, time, m.state)
	} else {
		m.report.Count("crc-fail:sch-hd", 1)
	}

	channel2 := macstate.SCHHD
	failKey := "crc-fail:sch-hd"
	if bnchFlag(time) {
		channel2 = macstate.BNCH
		failKey = "crc-fail:bnch"
	}
	if bkn2 != nil {
		m.demux.Dispatch(channel2, bkn2, time, m.state)
	} else {
		m.report.Count(failKey, 1)
	}
}
