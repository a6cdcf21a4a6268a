// Command tetradl decodes a TETRA downlink symbol stream, delivering LLC
// SDUs and U-plane blocks as they are recovered. It is a demonstration
// harness for the decoder package, not a production PEI client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ftl/tetra-downlink/decoder"
	"github.com/ftl/tetra-downlink/internal/ingest/serial"
	"github.com/ftl/tetra-downlink/internal/telemetry"
	"github.com/ftl/tetra-downlink/sink"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "", "YAML configuration file.")
	device := pflag.StringP("device", "p", "", "Serial port the demodulator is attached to; auto-detected if empty.")
	replayFile := pflag.StringP("replay", "i", "", "Replay a captured symbol file instead of a live serial device.")
	keepFillBits := pflag.BoolP("keep-fill-bits", "f", false, "Keep MAC PDU fill bits instead of stripping them.")
	logLevel := pflag.StringP("log-level", "d", "", "Log level: NONE, LOW, MEDIUM, HIGH, VERYHIGH.")
	wireshark := pflag.BoolP("wireshark", "w", false, "Write a JSON capture record for every logical-channel PDU.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tetradl - TETRA downlink decoder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tetradl [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tetradl: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *replayFile != "" {
		cfg.ReplayFile = *replayFile
	}
	if *keepFillBits {
		cfg.RemoveFillBits = false
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *wireshark {
		cfg.Wireshark = true
	}

	log := telemetry.NewLogger(os.Stderr, parseLogLevel(cfg.LogLevel))
	report := telemetry.NewCounters()

	var wire sink.WiresharkSink
	if cfg.Wireshark {
		wire = newJSONCaptureSink(os.Stdout)
	}

	opts := decoder.Options{
		RemoveFillBits:         cfg.RemoveFillBits,
		LogLevel:               parseLogLevel(cfg.LogLevel),
		WiresharkOutputEnabled: cfg.Wireshark,
	}
	d := decoder.New(opts, &logLLCSink{log: log}, &logUPlaneSink{log: log}, wire, log, report)

	source, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tetradl: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	if err := d.RxStream(source); err != nil {
		fmt.Fprintf(os.Stderr, "tetradl: %v\n", err)
		os.Exit(1)
	}

	for key, value := range report.Snapshot() {
		fmt.Fprintf(os.Stderr, "%s: %d\n", key, value)
	}
}

func openSource(cfg config) (readCloser, error) {
	if cfg.ReplayFile != "" {
		return os.Open(cfg.ReplayFile)
	}

	portName := cfg.Device
	if portName == "" {
		found, err := serial.FindRadioPortName()
		if err != nil {
			return nil, fmt.Errorf("no device configured and autodetection failed: %w", err)
		}
		portName = found
	}
	return serial.Open(portName)
}

type readCloser interface {
	Read(p []byte) (int, error)
	Close() error
}
