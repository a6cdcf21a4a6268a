// Package sink defines the narrow capability interfaces the decoder
// depends on for everything above the MAC (§9 DESIGN NOTES: "model
// upper-layer sinks as narrow capability interfaces" rather than an
// inheritance hierarchy or a shared mutable base).
package sink

import (
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/tetratime"
)

// LlcSink receives SDUs destined for LLC/MLE, per §6.
type LlcSink interface {
	Deliver(sdu pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address)
}

// UPlaneSink receives raw traffic blocks, per §6.
type UPlaneSink interface {
	Deliver(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address, state macstate.State, encryptionMode byte)
}

// WiresharkSink optionally receives every decoded logical-channel PDU for
// capture export, per §6. Gated at construction by wiresharkOutputEnabled.
type WiresharkSink interface {
	Capture(channel macstate.LogicalChannel, time tetratime.Time, pdu pdu.Bits)
}

// ReportSink receives named telemetry counters, per §6 and §7 (e.g.
// "null-pdu", CRC-failure-by-channel, disassociation-loop terminations).
type ReportSink interface {
	Count(key string, delta int)
}

// LogLevel enumerates the decoder's five log levels, per §6.
type LogLevel byte

// All defined log levels, from least to most verbose.
const (
	LogNone LogLevel = iota
	LogLow
	LogMedium
	LogHigh
	LogVeryHigh
)

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "NONE"
	case LogLow:
		return "LOW"
	case LogMedium:
		return "MEDIUM"
	case LogHigh:
		return "HIGH"
	case LogVeryHigh:
		return "VERYHIGH"
	default:
		return "UNKNOWN"
	}
}

// LogSink receives level-tagged diagnostic messages, per §6.
type LogSink interface {
	Log(level LogLevel, format string, args ...interface{})
}

// NopLogSink discards everything; useful as a default/test double.
type NopLogSink struct{}

func (NopLogSink) Log(LogLevel, string, ...interface{}) {}

// NopReportSink discards every counter; useful as a default/test double.
type NopReportSink struct{}

func (NopReportSink) Count(string, int) {}

// NopLlcSink discards every SDU; useful as a default/test double.
type NopLlcSink struct{}

func (NopLlcSink) Deliver(pdu.Bits, macstate.LogicalChannel, tetratime.Time, macaddr.Address) {}

// NopUPlaneSink discards every traffic block; useful as a default/test double.
type NopUPlaneSink struct{}

func (NopUPlaneSink) Deliver(pdu.Bits, macstate.LogicalChannel, tetratime.Time, macaddr.Address, macstate.State, byte) {
}
