// Package uppermac implements the upper MAC (§4.4): logical-channel
// dispatch, PDU-type demultiplex, address parsing, PDU disassociation
// within a burst, and fill-bit stripping.
package uppermac

import (
	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/defrag"
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
)

const (
	minSysinfoSize  = 82
	minMacDBlckSize = 268
	minSyncSize     = 60

	maxDisassociationIterations = 32
	minDisassociationAdvance    = 40
)

// Demux is the upper MAC's single instance: it owns the cell context, the
// defragmenter, the usage-marker/encryption map, and the upward sinks.
type Demux struct {
	Cell     *cellctx.Context
	Defrag   *defrag.Defragmenter
	UsageMap *macstate.UsageMarkerEncryptionMap

	LLC      sink.LlcSink
	UPlane   sink.UPlaneSink
	Wire     sink.WiresharkSink
	Log      sink.LogSink
	Report   sink.ReportSink

	// RemoveFillBits mirrors the decoder's removeFillBits option, §6.
	RemoveFillBits bool

	// TimeSync is invoked with the absolute TDMA time decoded from a SYNC
	// PDU, so the burst synchronizer's free-running clock can be
	// corrected. May be nil.
	TimeSync func(tetratime.Time)

	lastAddress          macaddr.Address
	secondSlotStolenFlag bool
}

// New returns a Demux wired to its collaborators. Any sink may be nil, in
// which case a no-op default is substituted.
func New(cell *cellctx.Context, frag *defrag.Defragmenter, usageMap *macstate.UsageMarkerEncryptionMap, llc sink.LlcSink, uplane sink.UPlaneSink, wire sink.WiresharkSink, log sink.LogSink, report sink.ReportSink, removeFillBits bool) *Demux {
	if llc == nil {
		llc = sink.NopLlcSink{}
	}
	if uplane == nil {
		uplane = sink.NopUPlaneSink{}
	}
	if log == nil {
		log = sink.NopLogSink{}
	}
	if report == nil {
		report = sink.NopReportSink{}
	}
	return &Demux{
		Cell:           cell,
		Defrag:         frag,
		UsageMap:       usageMap,
		LLC:            llc,
		UPlane:         uplane,
		Wire:           wire,
		Log:            log,
		Report:         report,
		RemoveFillBits: removeFillBits,
	}
}

func (d *Demux) capture(channel macstate.LogicalChannel, time tetratime.Time, block pdu.Bits) {
	if d.Wire != nil {
		d.Wire.Capture(channel, time, block)
	}
}

// ProcessAACH decodes the 14-bit AACH payload into the MAC state that
// governs the rest of this slot's decoding, §4.4. The exact ETSI bit
// layout of the ACCESS-ASSIGN element was not available; this assigns the
// first 3 bits to downlinkUsage and the next 6 to the usage marker, which
// is the field width §3 defines for both (documented in DESIGN.md).
func (d *Demux) ProcessAACH(channel macstate.LogicalChannel, block pdu.Bits, time tetratime.Time) macstate.State {
	d.capture(channel, time, block)
	usage := macstate.DownlinkUsage(block.GetValue(0, 3) % 5)
	marker := byte(block.GetValue(3, 6))
	return macstate.State{
		LogicalChannel:      channel,
		DownlinkUsage:       usage,
		DownlinkUsageMarker: marker,
	}
}

// ProcessSync decodes the BSCH's SYNC PDU, §4.4.
func (d *Demux) ProcessSync(block pdu.Bits, time tetratime.Time) {
	d.capture(macstate.BSCH, time, block)
	if block.Size() < minSyncSize {
		d.Log.Log(sink.LogLow, "SYNC undersized: %d < %d", block.Size(), minSyncSize)
		d.Report.Count("undersized-sync", 1)
		return
	}

	colorCode := byte(block.GetValue(4, 6))
	tn := int(block.GetValue(10, 2)) + 1
	fn := int(block.GetValue(12, 5))
	mn := int(block.GetValue(17, 6))
	mcc := uint16(block.GetValue(31, 10))
	mnc := uint16(block.GetValue(41, 14))

	d.Cell.UpdateScramblingCode(mcc, mnc, colorCode)
	if d.TimeSync != nil {
		d.TimeSync(tetratime.Time{TN: tn, FN: fn, MN: mn})
	}

	sdu := block.Tail(60)
	if sdu.Size() > 29 {
		sdu = sdu.Slice(0, 29)
	}
	d.LLC.Deliver(sdu, macstate.BSCH, tetratime.Time{TN: tn, FN: fn, MN: mn}, macaddr.Address{})
}

// ProcessTraffic forwards a raw traffic block to the U-plane sink, §4.4.
func (d *Demux) ProcessTraffic(channel macstate.LogicalChannel, block pdu.Bits, time tetratime.Time, state macstate.State) {
	d.capture(channel, time, block)
	encryption := d.UsageMap.Get(state.DownlinkUsageMarker)
	d.UPlane.Deliver(block, channel, time, d.lastAddress, state, encryption)
}

// Dispatch routes a decoded logical-channel block to the correct upper-MAC
// handling per §4.4's dispatch table. AACH is handled separately by the
// lower MAC via ProcessAACH, since its result (the new MacState) is needed
// before the rest of the burst's blocks can be dispatched.
func (d *Demux) Dispatch(channel macstate.LogicalChannel, block pdu.Bits, time tetratime.Time, state macstate.State) {
	switch channel {
	case macstate.BSCH:
		d.ProcessSync(block, time)
	case macstate.BNCH, macstate.SCHF, macstate.SCHHD, macstate.STCH:
		d.ProcessSignalling(channel, block, time)
	case macstate.TCH, macstate.TCHS:
		d.ProcessTraffic(channel, block, time, state)
	}
}

// ProcessSignalling runs the PDU-type demultiplex and disassociation loop
// over block, received on channel at time, §4.4.
func (d *Demux) ProcessSignalling(channel macstate.LogicalChannel, block pdu.Bits, time tetratime.Time) {
	d.capture(channel, time, block)
	fn18 := time.FN == 18

	for iteration := 0; iteration < maxDisassociationIterations; iteration++ {
		if block.Size() == 0 {
			return
		}
		consumed := d.dispatchPdu(channel, block, time, fn18)
		if consumed < 0 {
			return
		}
		remaining := block.Size() - consumed
		if remaining < minDisassociationAdvance {
			return
		}
		block = block.Tail(consumed)
	}
	d.Log.Log(sink.LogMedium, "disassociation loop bailed after %d PDUs", maxDisassociationIterations)
	d.Report.Count("disassociation-loop-bailout", 1)
}

// dispatchPdu demultiplexes a single PDU from the front of block by its
// type code and returns the number of bits it consumed, or -1 if
// disassociation should stop (NULL PDU, reserved length, undersized PDU),
// per §4.4 table.
func (d *Demux) dispatchPdu(channel macstate.LogicalChannel, block pdu.Bits, time tetratime.Time, fn18 bool) int {
	typeCode := block.GetValue(0, 2)
	switch typeCode {
	case 0b00:
		return d.parseMacResource(block, channel, time, fn18)
	case 0b01:
		sub := block.GetValue(2, 1)
		if sub == 0 {
			return d.parseMacFrag(block)
		}
		return d.parseMacEnd(block, channel, time, fn18)
	case 0b10:
		sub := block.GetValue(2, 2)
		if sub == 0b00 {
			return d.parseSysinfo(block, channel, time)
		}
		return d.parseAccessDefine(block)
	default: // 0b11
		if channel == macstate.STCH || channel == macstate.SCHHD {
			// MAC-D-BLCK is defined only for channels where an
			// implicit 268-bit length makes sense (SCH/F, BNCH);
			// treat as reserved elsewhere.
			d.Report.Count("mac-d-blck-wrong-channel", 1)
			return -1
		}
		return d.parseMacDBlck(block, channel, time)
	}
}

// TakeSecondSlotStolen reads and clears the second-slot-stolen flag set by
// a MAC-RESOURCE length field of 0b111110; its lifetime is the NDB_SF burst
// that consumes it, §4.3.
func (d *Demux) TakeSecondSlotStolen() bool {
	v := d.secondSlotStolenFlag
	d.secondSlotStolenFlag = false
	return v
}

func skipConditionalField(c pdu.Cursor, valueBits int) pdu.Cursor {
	present, c := c.Read(1)
	if present != 0 {
		c = c.Skip(valueBits)
	}
	return c
}
