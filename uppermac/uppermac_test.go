package uppermac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/tetra-downlink/cellctx"
	"github.com/ftl/tetra-downlink/defrag"
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/tetratime"
)

type delivery struct {
	sdu     pdu.Bits
	channel macstate.LogicalChannel
	time    tetratime.Time
	addr    macaddr.Address
}

type recordingLLC struct {
	deliveries []delivery
}

func (r *recordingLLC) Deliver(sdu pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address) {
	r.deliveries = append(r.deliveries, delivery{sdu, channel, time, addr})
}

// bitsOf renders value's low nbits as a big-endian pdu.Bits fragment.
func bitsOf(value uint32, nbits int) pdu.Bits {
	result := make(pdu.Bits, nbits)
	for i := 0; i < nbits; i++ {
		result[nbits-1-i] = byte((value >> uint(i)) & 1)
	}
	return result
}

func newDemux(llc *recordingLLC) *Demux {
	return New(cellctx.New(), defrag.New(nil, nil), macstate.NewUsageMarkerEncryptionMap(), llc, nil, nil, nil, nil, true)
}

func TestDecodeLengthReservedCodes(t *testing.T) {
	for _, code := range []uint32{0, 0b111011, 0b111100, 0b111101} {
		_, reserved, _, _ := decodeLength(code)
		assert.True(t, reserved, "code %06b", code)
	}
}

func TestDecodeLengthControlCodes(t *testing.T) {
	_, _, stolen, _ := decodeLength(lengthSecondSlotStolen)
	assert.True(t, stolen)

	_, _, _, fragStart := decodeLength(lengthFragmentStart)
	assert.True(t, fragStart)
}

func TestDecodeLengthOrdinaryCodes(t *testing.T) {
	octets, reserved, _, _ := decodeLength(8)
	assert.False(t, reserved)
	assert.Equal(t, 8, octets)
}

func TestStripFillBitsTrailingOne(t *testing.T) {
	in := pdu.BitsFromInts(1, 0, 1, 1)
	out := stripFillBits(in, true)
	assert.Equal(t, pdu.BitsFromInts(1, 0, 1), out)
}

func TestStripFillBitsTrailingZerosThenOne(t *testing.T) {
	in := pdu.BitsFromInts(1, 0, 1, 1, 0, 0)
	out := stripFillBits(in, true)
	assert.Equal(t, pdu.BitsFromInts(1, 0, 1), out)
}

func TestStripFillBitsIdempotentWhenNotReapplied(t *testing.T) {
	in := pdu.BitsFromInts(1, 0, 1, 1, 0, 0)
	once := stripFillBits(in, true)
	twice := stripFillBits(once, false)
	assert.Equal(t, once, twice)
}

// TestMacResourceDeliversSduWithAddress mirrors scenario S2: an NDB carrying
// a MAC-RESOURCE of length 0b001000 (8 octets = 64 bits), addressType=001,
// ssi=0x123456.
func TestMacResourceDeliversSduWithAddress(t *testing.T) {
	llc := &recordingLLC{}
	d := newDemux(llc)

	header := pdu.Concat(
		bitsOf(0b00, 2),       // type: MAC-RESOURCE
		bitsOf(0, 1),          // fill bit flag
		bitsOf(0, 1),          // position of grant
		bitsOf(0, 2),          // encryption mode
		bitsOf(0, 1),          // random access
		bitsOf(8, 6),          // length = 8 octets
		bitsOf(1, 3),          // address type = SSITypeAddr
		bitsOf(0x123456, 24),  // ssi
		bitsOf(0, 1),          // power control present
		bitsOf(0, 1),          // slot granting present
		bitsOf(0, 1),          // channel allocation present
	)
	sdu := bitsOf(0x1FFFFF, 21)
	block := header.Append(sdu)
	assert.Equal(t, 64, block.Size())

	d.ProcessSignalling(macstate.BNCH, block, tetratime.New())

	assert.Len(t, llc.deliveries, 1)
	assert.Equal(t, sdu, llc.deliveries[0].sdu)
	assert.Equal(t, uint32(0x123456), llc.deliveries[0].addr.SSI)
}

// TestFragmentationReassemblesAcrossMacFragAndMacEnd mirrors scenario S3.
func TestFragmentationReassemblesAcrossMacFragAndMacEnd(t *testing.T) {
	llc := &recordingLLC{}
	d := newDemux(llc)

	fragment1 := bitsOf(0b101010101, 9).Append(make(pdu.Bits, 41)) // 50 bits
	startHeader := pdu.Concat(
		bitsOf(0b00, 2),       // type: MAC-RESOURCE
		bitsOf(0, 1),          // fill bit flag
		bitsOf(0, 1),          // position of grant
		bitsOf(0, 2),          // encryption mode
		bitsOf(0, 1),          // random access
		bitsOf(lengthFragmentStart, 6),
		bitsOf(1, 3),          // address type = SSITypeAddr
		bitsOf(0xABCDEF, 24),  // ssi
		bitsOf(0, 1),          // power control present
		bitsOf(0, 1),          // slot granting present
		bitsOf(0, 1),          // channel allocation present
	)
	d.ProcessSignalling(macstate.BNCH, startHeader.Append(fragment1), tetratime.New())
	assert.True(t, d.Defrag.Active())

	fragment2 := make(pdu.Bits, 100)
	fragHeader := pdu.Concat(
		bitsOf(0b01, 2), // type
		bitsOf(0, 1),    // sub: MAC-FRAG
		bitsOf(0, 1),    // fill bit flag
	)
	d.ProcessSignalling(macstate.BNCH, fragHeader.Append(fragment2), tetratime.New())
	assert.True(t, d.Defrag.Active())

	fragment3 := make(pdu.Bits, 30)
	endHeader := pdu.Concat(
		bitsOf(0b01, 2), // type
		bitsOf(1, 1),    // sub: MAC-END
		bitsOf(0, 1),    // fill bit flag
		bitsOf(0, 1),    // position of grant
		bitsOf(2, 6),    // length of MAC PDU
		bitsOf(0, 1),    // slot granting present
		bitsOf(0, 1),    // channel allocation present
	)
	d.ProcessSignalling(macstate.BNCH, endHeader.Append(fragment3), tetratime.New())

	assert.False(t, d.Defrag.Active())
	assert.Len(t, llc.deliveries, 1)
	assert.Equal(t, 180, llc.deliveries[0].sdu.Size())
}

// TestNullPduHaltsDisassociation mirrors scenario S6.
func TestNullPduHaltsDisassociation(t *testing.T) {
	llc := &recordingLLC{}
	d := newDemux(llc)
	report := &countingReport{}
	d.Report = report

	block := pdu.Concat(
		bitsOf(0b00, 2),
		bitsOf(0, 1),
		bitsOf(0, 1),
		bitsOf(0, 2),
		bitsOf(0, 1),
		bitsOf(8, 6),
		bitsOf(0, 3), // address type = Null
		make(pdu.Bits, 100),
	)

	d.ProcessSignalling(macstate.BNCH, block, tetratime.New())

	assert.Empty(t, llc.deliveries)
	assert.Equal(t, 1, report.counts["null-pdu"])
}

type countingReport struct {
	counts map[string]int
}

func (r *countingReport) Count(key string, delta int) {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[key] += delta
}

func TestProcessAACHDecodesUsageAndMarker(t *testing.T) {
	d := newDemux(&recordingLLC{})
	block := pdu.Concat(bitsOf(4, 3), bitsOf(17, 6), make(pdu.Bits, 5))

	state := d.ProcessAACH(macstate.AACH, block, tetratime.New())

	assert.Equal(t, macstate.Traffic, state.DownlinkUsage)
	assert.Equal(t, byte(17), state.DownlinkUsageMarker)
}

func TestProcessSyncUpdatesCellAndDeliversSdu(t *testing.T) {
	llc := &recordingLLC{}
	d := newDemux(llc)
	var synced tetratime.Time
	d.TimeSync = func(t tetratime.Time) { synced = t }

	block := make(pdu.Bits, 89)
	copy(block[4:10], bitsOf(10, 6))  // colour code
	copy(block[10:12], bitsOf(2, 2))  // tn-1 = 2 -> tn = 3
	copy(block[12:17], bitsOf(18, 5)) // fn
	copy(block[17:23], bitsOf(5, 6))  // mn
	copy(block[31:41], bitsOf(208, 10))
	copy(block[41:55], bitsOf(1, 14))

	d.ProcessSync(block, tetratime.New())

	assert.Equal(t, tetratime.Time{TN: 3, FN: 18, MN: 5}, synced)
	assert.Equal(t, cellctx.ScramblingCodeFor(208, 1, 10), d.Cell.ScramblingCode)
	assert.Len(t, llc.deliveries, 1)
	assert.Equal(t, macstate.BSCH, llc.deliveries[0].channel)
}
