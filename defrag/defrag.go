// Package defrag implements the MAC defragmenter (§4.5): a single in-flight
// reassembly context spanning MAC-RESOURCE → MAC-FRAG* → MAC-END, with no
// keyed map since only one receiver context is ever active at a time.
package defrag

import (
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
)

// Defragmenter holds the single in-flight fragment reassembly context,
// §3 DefragContext.
type Defragmenter struct {
	active    bool
	address   macaddr.Address
	startTime tetratime.Time
	fragments pdu.Bits

	encryptionMode byte
	usageMarker    byte

	log    sink.LogSink
	report sink.ReportSink
}

// New returns an idle Defragmenter. log and report may be nil, in which case
// no-op sinks are used.
func New(log sink.LogSink, report sink.ReportSink) *Defragmenter {
	if log == nil {
		log = sink.NopLogSink{}
	}
	if report == nil {
		report = sink.NopReportSink{}
	}
	return &Defragmenter{log: log, report: report}
}

// Active reports whether a reassembly is currently in flight.
func (d *Defragmenter) Active() bool {
	return d.active
}

// Start begins collecting a fragmented SDU for address, discarding any
// previously collecting context. Discarding an in-flight context counts as
// a failure and is logged, §4.5.
func (d *Defragmenter) Start(address macaddr.Address, time tetratime.Time, encryptionMode, usageMarker byte) {
	if d.active {
		d.log.Log(sink.LogMedium, "defragmenter: new start at %s discards in-flight context from %s", time, d.startTime)
		d.report.Count("defrag-discarded", 1)
	}
	d.active = true
	d.address = address
	d.startTime = time
	d.fragments = nil
	d.encryptionMode = encryptionMode
	d.usageMarker = usageMarker
}

// Append adds bits to the in-flight reassembly, attributed to address. It
// returns false (and resets to idle) if the defragmenter was idle, or if
// address does not identify the same subscriber as the context's start
// address, §4.5.
func (d *Defragmenter) Append(bits pdu.Bits, address macaddr.Address) bool {
	if !d.active {
		d.log.Log(sink.LogMedium, "defragmenter: append while idle")
		d.report.Count("defrag-append-idle", 1)
		return false
	}
	if !macaddr.SameSubscriber(d.address, address) {
		d.log.Log(sink.LogMedium, "defragmenter: ssi mismatch, got %s want %s", address, d.address)
		d.report.Count("defrag-ssi-mismatch", 1)
		d.active = false
		d.fragments = nil
		return false
	}
	d.fragments = d.fragments.Append(bits)
	return true
}

// UpdateEncryption overwrites the encryption mode and usage marker that will
// be attached to the emitted SDU; later updates win over the one recorded at
// Start, §4.5.
func (d *Defragmenter) UpdateEncryption(encryptionMode, usageMarker byte) {
	d.encryptionMode = encryptionMode
	d.usageMarker = usageMarker
}

// GetSdu returns the concatenated fragment bits collected so far. Callers
// invoke Stop afterward.
func (d *Defragmenter) GetSdu() pdu.Bits {
	return d.fragments
}

// EncryptionMode returns the encryption mode attached to the in-flight SDU.
func (d *Defragmenter) EncryptionMode() byte {
	return d.encryptionMode
}

// UsageMarker returns the usage marker attached to the in-flight SDU.
func (d *Defragmenter) UsageMarker() byte {
	return d.usageMarker
}

// StartTime returns the TDMA time at which the in-flight reassembly began.
func (d *Defragmenter) StartTime() tetratime.Time {
	return d.startTime
}

// Address returns the subscriber address the in-flight reassembly is keyed
// on.
func (d *Defragmenter) Address() macaddr.Address {
	return d.address
}

// Stop releases the in-flight context, returning to idle. Calling Stop while
// already idle is logged as misuse but otherwise harmless, §4.5 / §7.
func (d *Defragmenter) Stop() {
	if !d.active {
		d.log.Log(sink.LogLow, "defragmenter: stop of inactive context")
		d.report.Count("defrag-stop-idle", 1)
		return
	}
	d.active = false
	d.fragments = nil
}
