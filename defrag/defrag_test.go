package defrag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/tetratime"
)

func ssiAddr(ssi uint32) macaddr.Address {
	return macaddr.Address{Type: macaddr.SSITypeAddr, SSI: ssi}
}

func TestAppendWhileIdleFails(t *testing.T) {
	d := New(nil, nil)
	ok := d.Append(pdu.BitsFromInts(1, 0, 1), ssiAddr(1))
	assert.False(t, ok)
	assert.False(t, d.Active())
}

func TestStartThenAppendAccumulates(t *testing.T) {
	d := New(nil, nil)
	addr := ssiAddr(0x123456)
	d.Start(addr, tetratime.New(), 1, 5)

	assert.True(t, d.Append(pdu.BitsFromInts(1, 1, 0), addr))
	assert.True(t, d.Append(pdu.BitsFromInts(0, 0, 1), addr))

	assert.Equal(t, pdu.BitsFromInts(1, 1, 0, 0, 0, 1), d.GetSdu())
	assert.Equal(t, byte(1), d.EncryptionMode())
	assert.Equal(t, byte(5), d.UsageMarker())
}

func TestAppendSsiMismatchResetsToIdle(t *testing.T) {
	d := New(nil, nil)
	d.Start(ssiAddr(1), tetratime.New(), 0, 0)

	ok := d.Append(pdu.BitsFromInts(1), ssiAddr(2))

	assert.False(t, ok)
	assert.False(t, d.Active())
}

func TestStartDiscardsInFlightContext(t *testing.T) {
	d := New(nil, nil)
	d.Start(ssiAddr(1), tetratime.New(), 0, 0)
	d.Append(pdu.BitsFromInts(1, 1, 1), ssiAddr(1))

	d.Start(ssiAddr(2), tetratime.New().Advance(), 1, 1)

	assert.True(t, d.Active())
	assert.Equal(t, pdu.Bits(nil), d.GetSdu())
	assert.Equal(t, ssiAddr(2), d.Address())
}

func TestUpdateEncryptionOverwritesStartValue(t *testing.T) {
	d := New(nil, nil)
	d.Start(ssiAddr(1), tetratime.New(), 0, 0)
	d.UpdateEncryption(2, 9)

	assert.Equal(t, byte(2), d.EncryptionMode())
	assert.Equal(t, byte(9), d.UsageMarker())
}

func TestStopReturnsToIdle(t *testing.T) {
	d := New(nil, nil)
	d.Start(ssiAddr(1), tetratime.New(), 0, 0)
	d.Stop()

	assert.False(t, d.Active())
}

func TestStopWhileIdleIsHarmless(t *testing.T) {
	d := New(nil, nil)
	assert.NotPanics(t, func() { d.Stop() })
}
