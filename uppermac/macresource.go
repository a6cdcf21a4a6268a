package uppermac

import (
	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
)

// Y2/Z2 are the slot-granularity multipliers of table 21.55 for π/4-DQPSK
// downlink modulation; other modulations (not supported by this decoder)
// use different values.
const (
	y2 = 1
	z2 = 1
)

const (
	lengthLowSplit         = 0b010010 // 18
	lengthHighBound        = 0b111010 // 58
	lengthSecondSlotStolen = 0b111110
	lengthFragmentStart    = 0b111111
)

// decodeLength maps the 6-bit MAC-RESOURCE length field to an octet count,
// per table 21.55. secondSlotStolen and fragmentStart are control codes
// carrying no length of their own.
func decodeLength(code uint32) (octets int, reserved, secondSlotStolen, fragmentStart bool) {
	switch {
	case code == 0 || code == 0b111011 || code == 0b111100 || code == 0b111101:
		return 0, true, false, false
	case code == lengthSecondSlotStolen:
		return 0, false, true, false
	case code == lengthFragmentStart:
		return 0, false, false, true
	case code <= lengthLowSplit:
		return int(code) * y2, false, false, false
	case code <= lengthHighBound:
		return lengthLowSplit*y2 + int(code-lengthLowSplit)*z2, false, false, false
	default:
		return 0, true, false, false
	}
}

// parseMacResource parses a MAC-RESOURCE PDU at the front of block, §4.4 /
// 21.4.3.1. It returns the number of bits consumed (pduSizeInMac) for the
// disassociation loop, or -1 if disassociation must stop (NULL PDU or a
// reserved length field, §7).
func (d *Demux) parseMacResource(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, fn18 bool) int {
	c := pdu.NewCursor(block).Skip(2) // type code, already identified by dispatchPdu

	fillBitRaw, c := c.Read(1)
	fillBitFlag := fillBitRaw != 0
	c = c.Skip(1) // position of grant

	var encryptionMode uint32
	encryptionMode, c = c.Read(2)
	c = c.Skip(1) // random access

	lengthCode, c := c.Read(6)
	octets, reserved, secondSlotStolen, fragmentStart := decodeLength(lengthCode)
	if reserved {
		d.Report.Count("mac-resource-reserved-length", 1)
		return -1
	}

	addr, c := macaddr.Parse(c)
	if addr.IsNull() {
		// FIXME to check: the source leaves pduSizeInMac's assignment
		// ambiguous when a fragmented packet is detected here; this
		// NULL branch is unambiguous and always halts disassociation.
		d.Report.Count("null-pdu", 1)
		return -1
	}
	d.lastAddress = addr
	if addr.Type == macaddr.SSIWithUsageMarkerAddr || addr.Type == macaddr.SSIWithUsageMarkerAndEncryptionAddr {
		d.UsageMap.Set(addr.UsageMarker, byte(encryptionMode))
	}

	c = skipConditionalField(c, 4) // power control
	c = skipConditionalField(c, 8) // slot granting
	c = skipChannelAllocationResource(c, fn18)

	switch {
	case secondSlotStolen:
		d.secondSlotStolenFlag = true
		return c.Pos()
	case fragmentStart:
		remainder := stripFillBits(c.Tail(), fillBitFlag && d.RemoveFillBits)
		d.Defrag.Start(addr, time, byte(encryptionMode), addr.UsageMarker)
		d.Defrag.Append(remainder, addr)
		return block.Size()
	default:
		totalBits := 8 * octets
		sduLen := totalBits - c.Pos()
		if sduLen <= 0 {
			return c.Pos()
		}
		sdu := c.Tail()
		if sdu.Size() > sduLen {
			sdu = sdu.Slice(0, sduLen)
		}
		sdu = stripFillBits(sdu, fillBitFlag && d.RemoveFillBits)
		d.LLC.Deliver(sdu, channel, time, addr)
		return totalBits
	}
}

// parseMacFrag parses a MAC-FRAG PDU, §4.4.
func (d *Demux) parseMacFrag(block pdu.Bits) int {
	c := pdu.NewCursor(block).Skip(3) // type + sub
	fillBitRaw, c := c.Read(1)
	fillBitFlag := fillBitRaw != 0
	remainder := stripFillBits(c.Tail(), fillBitFlag && d.RemoveFillBits)
	d.Defrag.Append(remainder, d.lastAddress)
	return block.Size()
}

// parseMacEnd parses a MAC-END PDU, §4.4 / §9 open question (b): when the
// defragmenter is idle, this is treated as a no-op and logged rather than
// emitting an empty SDU.
func (d *Demux) parseMacEnd(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, fn18 bool) int {
	c := pdu.NewCursor(block).Skip(3) // type + sub
	fillBitRaw, c := c.Read(1)
	fillBitFlag := fillBitRaw != 0
	c = c.Skip(1) // position of grant

	lengthCode, c := c.Read(6)
	if lengthCode < 0b000010 || lengthCode > 0b100010 {
		d.Report.Count("mac-end-reserved-length", 1)
		return -1
	}

	c = skipConditionalField(c, 8) // slot granting
	c = skipChannelAllocationMacEnd(c, fn18)

	remainder := stripFillBits(c.Tail(), fillBitFlag && d.RemoveFillBits)

	if !d.Defrag.Active() {
		d.Log.Log(sink.LogMedium, "MAC-END received while defragmenter idle")
		d.Report.Count("mac-end-idle", 1)
		return block.Size()
	}

	d.Defrag.Append(remainder, d.Defrag.Address())
	sdu := d.Defrag.GetSdu()
	addr := d.Defrag.Address()
	d.LLC.Deliver(sdu, channel, time, addr)
	d.Defrag.Stop()
	return block.Size()
}

// parseAccessDefine parses an ACCESS-DEFINE PDU, §4.4: no SDU is produced.
func (d *Demux) parseAccessDefine(block pdu.Bits) int {
	return block.Size()
}

// parseSysinfo parses a SYSINFO PDU, §4.4.
func (d *Demux) parseSysinfo(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time) int {
	if block.Size() < minSysinfoSize {
		d.Log.Log(sink.LogLow, "SYSINFO undersized: %d < %d", block.Size(), minSysinfoSize)
		d.Report.Count("undersized-sysinfo", 1)
		return -1
	}

	c := pdu.NewCursor(block).Skip(4) // type "10" + sub "00"
	mainCarrier, c := c.Read(12)
	band, c := c.Read(4)
	offset, c := c.Read(2)
	c = c.Skip(3) // duplex spacing

	freq := int64(band)*100_000_000 + int64(mainCarrier)*25_000 + duplexOffsetAt(offset)
	d.Cell.UpdateFrequency(freq)

	sdu := block.Tail(minSysinfoSize)
	if sdu.Size() > 42 {
		sdu = sdu.Slice(0, 42)
	}
	d.LLC.Deliver(sdu, channel, time, macaddr.Address{})
	return block.Size()
}

func duplexOffsetAt(offset uint32) int64 {
	idx := int(offset) & 0x3
	return cellctx.DuplexOffset[idx]
}

// parseMacDBlck parses a MAC-D-BLCK PDU, §4.4: an implicit 268-bit length.
func (d *Demux) parseMacDBlck(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time) int {
	if block.Size() < minMacDBlckSize {
		d.Log.Log(sink.LogLow, "MAC-D-BLCK undersized: %d < %d", block.Size(), minMacDBlckSize)
		d.Report.Count("undersized-mac-d-blck", 1)
		return -1
	}
	c := pdu.NewCursor(block).Skip(2)
	sdu := c.Tail()
	if sdu.Size() > minMacDBlckSize-2 {
		sdu = sdu.Slice(0, minMacDBlckSize-2)
	}
	d.LLC.Deliver(sdu, channel, time, macaddr.Address{})
	return minMacDBlckSize
}
