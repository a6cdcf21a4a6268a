package telemetry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/tetra-downlink/sink"
)

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, sink.LogMedium)

	logger.Log(sink.LogVeryHigh, "noisy %d", 1)
	assert.Empty(t, buf.String())

	logger.Log(sink.LogLow, "important %d", 2)
	assert.Contains(t, buf.String(), "important 2")
}

func TestLoggerLogNoneIsAlwaysSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, sink.LogVeryHigh)

	logger.Log(sink.LogNone, "should never print")
	assert.Empty(t, buf.String())
}

func TestCountersAccumulate(t *testing.T) {
	c := NewCounters()
	c.Count("null-pdu", 1)
	c.Count("null-pdu", 1)
	c.Count("crc-fail:bnch", 1)

	assert.Equal(t, 2, c.Get("null-pdu"))
	assert.Equal(t, 1, c.Get("crc-fail:bnch"))
	assert.Equal(t, 0, c.Get("unused"))

	snap := c.Snapshot()
	assert.Equal(t, 2, snap["null-pdu"])
}
