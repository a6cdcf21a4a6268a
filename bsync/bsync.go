// Package bsync implements the burst synchronizer (§4.1): it consumes one
// demodulator symbol at a time, correlates against the fixed TETRA training
// sequences, and dispatches aligned 510-bit frames to the lower MAC.
package bsync

import (
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
)

// BurstType classifies a processed burst by which training sequence scored
// lowest, §4.1.
type BurstType int

const (
	SB BurstType = iota
	NDB
	NDBSF
)

func (t BurstType) String() string {
	switch t {
	case SB:
		return "SB"
	case NDB:
		return "NDB"
	case NDBSF:
		return "NDB_SF"
	default:
		return "UNKNOWN"
	}
}

// BurstHandler receives aligned burst frames, tagged with their type and the
// TDMA time at which they were received. The lower MAC implements this.
type BurstHandler interface {
	HandleBurst(frame pdu.Bits, burstType BurstType, time tetratime.Time)
}

// Synchronizer is the burst-synchronization state machine of §4.1 and §3's
// SynchronizerState. It owns the TDMA time triple, since time only advances
// as bursts are processed here.
type Synchronizer struct {
	buffer         pdu.Bits
	synchronized   bool
	syncBitCounter int64
	time           tetratime.Time

	handler BurstHandler
	log     sink.LogSink
	report  sink.ReportSink
}

// New returns a Synchronizer dispatching processed bursts to handler. log
// and report may be nil, in which case no-op sinks are used.
func New(handler BurstHandler, log sink.LogSink, report sink.ReportSink) *Synchronizer {
	if log == nil {
		log = sink.NopLogSink{}
	}
	if report == nil {
		report = sink.NopReportSink{}
	}
	return &Synchronizer{
		time:    tetratime.New(),
		handler: handler,
		log:     log,
		report:  report,
	}
}

// Synchronized reports whether the synchronizer currently believes it is
// tracking burst boundaries.
func (s *Synchronizer) Synchronized() bool {
	return s.synchronized
}

// Time returns the current TDMA time triple.
func (s *Synchronizer) Time() tetratime.Time {
	return s.time
}

// SetTime corrects the free-running TDMA clock to t, as decoded from a
// SYNC PDU. The burst counter only ever advances by one per processed
// burst, so drift can only be corrected this way, never by skipping.
func (s *Synchronizer) SetTime(t tetratime.Time) {
	s.time = t
}

// RxSymbol feeds one hard-decision demodulator bit into the synchronizer.
// It returns true iff a burst boundary was matched (aligned or assumed) this
// call, per §6. The burst is then processed, but it reaches the handler only
// if burst-type classification accepts it.
func (s *Synchronizer) RxSymbol(bit byte) bool {
	s.buffer = s.buffer.Append(pdu.Bits{bit & 1})
	if s.buffer.Size() < burstSize {
		s.tick()
		return false
	}
	if s.buffer.Size() > burstSize {
		s.buffer = s.buffer.Tail(s.buffer.Size() - burstSize)
	}

	sB := hammingScore(s.buffer, ntsBegin, ntsBeginOffset)
	sE := hammingScore(s.buffer, ntsEnd, ntsEndOffset)
	aligned := sB == 0 && sE < 2
	if aligned {
		// the symbol that aligns never counts against its own fresh budget.
		s.synchronized = true
		s.syncBitCounter = burstSize * missedBurstTolerance
		s.processBurst()
		s.buffer = nil
		return true
	}

	s.tick()
	if s.synchronized && s.syncBitCounter%burstSize == 0 {
		s.processBurst()
		s.buffer = nil
		return true
	}
	s.buffer = s.buffer.Tail(1)
	return false
}

// tick decrements the missed-burst budget while synchronized, declaring
// synchronization lost when it is exhausted, §4.1 / §7.
func (s *Synchronizer) tick() {
	if !s.synchronized {
		return
	}
	s.syncBitCounter--
	if s.syncBitCounter <= 0 {
		s.syncBitCounter = 0
		s.synchronized = false
		s.log.Log(sink.LogLow, "synchronization lost at %s", s.time)
		s.report.Count("sync-lost", 1)
	}
}

// processBurst bumps TDMA time, classifies the current buffer's burst type,
// and dispatches it to the handler.
func (s *Synchronizer) processBurst() {
	s.time = s.time.Advance()

	burstType, ok := s.classify()
	if !ok {
		s.log.Log(sink.LogMedium, "burst dropped at %s: burst type uncertain", s.time)
		s.report.Count("burst-type-rejected", 1)
		return
	}
	s.handler.HandleBurst(s.buffer, burstType, s.time)
}

// classify scores the buffer against SYNC_TS, NTS_1 and NTS_2, returning the
// burst type of the lowest-scoring pattern with ties broken in priority
// order (SB, NDB, NDB_SF), §4.1.
func (s *Synchronizer) classify() (BurstType, bool) {
	sSync := hammingScore(s.buffer, syncTS, syncTSOffset)
	sN1 := hammingScore(s.buffer, nts1, nts1Offset)
	sN2 := hammingScore(s.buffer, nts2, nts2Offset)

	best := sSync
	burstType := SB
	if sN1 < best {
		best = sN1
		burstType = NDB
	}
	if sN2 < best {
		best = sN2
		burstType = NDBSF
	}
	if best > burstTypeRejectThreshold {
		return 0, false
	}
	return burstType, true
}
