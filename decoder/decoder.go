// Package decoder wires the burst synchronizer, lower MAC and upper MAC
// into the single rxSymbol entry point described by §2: one demodulator
// hard-decision bit in, zero or more sink deliveries out.
package decoder

import (
	"io"

	"github.com/ftl/tetra-downlink/bsync"
	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/defrag"
	"github.com/ftl/tetra-downlink/lowermac"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
	"github.com/ftl/tetra-downlink/uppermac"
)

// Options collects the decoder's construction-time configuration, §6.
type Options struct {
	// RemoveFillBits strips MAC PDU fill bits before delivering SDUs to the
	// LLC sink. The original command defaults this to true (-f disables it).
	RemoveFillBits bool

	// LogLevel records the chosen log level. New does not read it and does
	// not filter messages by it; every message goes to the LogSink passed to
	// New, which applies its own level.
	LogLevel sink.LogLevel

	// WiresharkOutputEnabled gates whether Wire receives captures at all;
	// when false, Decoder never calls it even if it is non-nil.
	WiresharkOutputEnabled bool
}

// Decoder is the top-level assembly: one Synchronizer feeding one LowerMAC
// feeding one Demux, sharing a single CellContext.
type Decoder struct {
	cell  *cellctx.Context
	sync  *bsync.Synchronizer
	lower *lowermac.LowerMAC
	upper *uppermac.Demux
}

// New assembles a Decoder. Any sink may be nil; LLC and UPlane default to
// no-ops, Wire is left nil (and therefore never called) unless
// opts.WiresharkOutputEnabled and wire are both set.
func New(opts Options, llc sink.LlcSink, uplane sink.UPlaneSink, wire sink.WiresharkSink, log sink.LogSink, report sink.ReportSink) *Decoder {
	if !opts.WiresharkOutputEnabled {
		wire = nil
	}

	cell := cellctx.New()
	frag := defrag.New(log, report)
	usageMap := macstate.NewUsageMarkerEncryptionMap()
	upper := uppermac.New(cell, frag, usageMap, llc, uplane, wire, log, report, opts.RemoveFillBits)
	lower := lowermac.New(cell, upper, log, report)
	synchronizer := bsync.New(lower, log, report)
	upper.TimeSync = synchronizer.SetTime

	return &Decoder{cell: cell, sync: synchronizer, lower: lower, upper: upper}
}

// RxSymbol feeds one demodulator hard-decision bit into the decoder,
// returning true iff a burst boundary was matched this call (see
// bsync.Synchronizer.RxSymbol).
func (d *Decoder) RxSymbol(bit byte) bool {
	return d.sync.RxSymbol(bit)
}

// RxStream reads symbols from r, one byte per symbol (any nonzero byte is a
// 1), until r returns an error or io.EOF. It is a blocking loop that
// returns only then; io.EOF yields a nil error.
func (d *Decoder) RxStream(r io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			bit := byte(0)
			if b != 0 {
				bit = 1
			}
			d.RxSymbol(bit)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Synchronized reports whether the burst synchronizer currently believes it
// is tracking burst boundaries.
func (d *Decoder) Synchronized() bool {
	return d.sync.Synchronized()
}

// Time returns the current TDMA time triple.
func (d *Decoder) Time() tetratime.Time {
	return d.sync.Time()
}

// Cell returns the shared cell context, updated as SYNC/SYSINFO PDUs are
// decoded.
func (d *Decoder) Cell() *cellctx.Context {
	return d.cell
}
