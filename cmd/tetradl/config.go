package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ftl/tetra-downlink/sink"
)

// config collects the YAML-file settings for a tetradl run; flags override
// whatever is loaded here, §6's decoder.Options plus the ingestion choice.
type config struct {
	Device         string `yaml:"device"`
	ReplayFile     string `yaml:"replay_file"`
	RemoveFillBits bool   `yaml:"remove_fill_bits"`
	LogLevel       string `yaml:"log_level"`
	Wireshark      bool   `yaml:"wireshark"`
}

// defaultConfig mirrors the original command's defaults: fill bits removed,
// debug level 1 (LOW), Wireshark output off.
func defaultConfig() config {
	return config{
		RemoveFillBits: true,
		LogLevel:       "LOW",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseLogLevel(name string) sink.LogLevel {
	switch name {
	case "NONE":
		return sink.LogNone
	case "LOW":
		return sink.LogLow
	case "MEDIUM":
		return sink.LogMedium
	case "HIGH":
		return sink.LogHigh
	case "VERYHIGH":
		return sink.LogVeryHigh
	default:
		return sink.LogLow
	}
}
