package main

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/ftl/tetra-downlink/internal/telemetry"
	"github.com/ftl/tetra-downlink/macaddr"
	"github.com/ftl/tetra-downlink/macstate"
	"github.com/ftl/tetra-downlink/pdu"
	"github.com/ftl/tetra-downlink/sink"
	"github.com/ftl/tetra-downlink/tetratime"
)

// logLLCSink logs every delivered SDU at sink.LogHigh, standing in for the
// LLC/MLE layer this decoder hands off to, §1.
type logLLCSink struct {
	log *telemetry.Logger
}

func (s *logLLCSink) Deliver(sdu pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address) {
	s.log.Log(sink.LogHigh, "%s @ %s addr=%s sdu=%s", channel, time, addr.Type, pdu.BinaryToHex(sdu.ToBytes()))
}

// logUPlaneSink logs traffic block arrival without decoding the payload;
// U-plane bytes are opaque to this decoder, §1.
type logUPlaneSink struct {
	log *telemetry.Logger
}

func (s *logUPlaneSink) Deliver(block pdu.Bits, channel macstate.LogicalChannel, time tetratime.Time, addr macaddr.Address, state macstate.State, encryptionMode byte) {
	s.log.Log(sink.LogVeryHigh, "%s @ %s addr=%s encryption=%d bits=%d", channel, time, addr.Type, encryptionMode, block.Size())
}

// captureRecord is one Wireshark-export line: a session-tagged, timestamped
// logical-channel PDU, §6 WiresharkSink.
type captureRecord struct {
	Session string `json:"session"`
	Time    string `json:"tetra_time"`
	Channel string `json:"channel"`
	Hex     string `json:"hex"`
}

// jsonCaptureSink writes one JSON record per captured PDU to w, tagged with
// a session UUID so multiple replay runs can be told apart downstream
// (mirroring how dbehnke-dmr-nexus correlates records with google/uuid).
type jsonCaptureSink struct {
	w       io.Writer
	session string
	enc     *json.Encoder
}

func newJSONCaptureSink(w io.Writer) *jsonCaptureSink {
	return &jsonCaptureSink{
		w:       w,
		session: uuid.New().String(),
		enc:     json.NewEncoder(w),
	}
}

func (s *jsonCaptureSink) Capture(channel macstate.LogicalChannel, time tetratime.Time, block pdu.Bits) {
	record := captureRecord{
		Session: s.session,
		Time:    time.String(),
		Channel: channel.String(),
		Hex:     pdu.BinaryToHex(block.ToBytes()),
	}
	_ = s.enc.Encode(record)
}
