package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/opd-ai/tilertp/stream"
	"gopkg.in/yaml.v3"
)

// CLIConfig holds the settings of one tilestream run.
// It is loaded from an optional YAML file and then overridden by flags.
type CLIConfig struct {
	Mode       string        `yaml:"mode"`
	Addr       string        `yaml:"addr"`
	Listen     string        `yaml:"listen"`
	File       string        `yaml:"file"`
	Format     string        `yaml:"format"`
	FrameSize  int           `yaml:"frame_size"`
	OutDir     string        `yaml:"out"`
	Duration   time.Duration `yaml:"duration"`
	StatsEvery time.Duration `yaml:"stats_every"`
	LogLevel   string        `yaml:"log_level"`
	LogFile    string        `yaml:"log_file"`
	Stream     stream.Config `yaml:"stream"`

	configPath string
}

// DefaultCLIConfig returns the defaults used when neither file nor flags set a value.
func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Addr:       "127.0.0.1:25000",
		Listen:     "127.0.0.1:25000",
		Format:     formatMJPEG,
		FrameSize:  8192,
		OutDir:     "frames",
		StatsEvery: 5 * time.Second,
		LogLevel:   "info",
		Stream:     stream.DefaultConfig(),
	}
}

// LoadConfigFile merges a YAML file into cfg.
func LoadConfigFile(cfg *CLIConfig, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return decodeConfig(cfg, f)
}

func decodeConfig(cfg *CLIConfig, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// newFlagSet binds the command-line flags for mode to cfg.
func newFlagSet(mode string, cfg *CLIConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)

	fs.StringVar(&cfg.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (default: stderr)")
	fs.DurationVar(&cfg.StatsEvery, "stats-every", cfg.StatsEvery, "Interval between statistics log lines (0 disables)")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "Stop after this long (0 runs until done or interrupted)")

	fs.IntVar(&cfg.Stream.MaxPacketSize, "max-packet-size", cfg.Stream.MaxPacketSize, "Maximum datagram size including the 24-byte header")

	switch mode {
	case modeSend:
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Receiver address")
		fs.StringVar(&cfg.Listen, "listen", ":0", "Local address to send from")
		fs.StringVar(&cfg.File, "file", cfg.File, "Frame source file")
		fs.StringVar(&cfg.Format, "format", cfg.Format, "Source format: mjpeg (5-digit length prefixes) or raw")
		fs.IntVar(&cfg.FrameSize, "frame-size", cfg.FrameSize, "Frame size for raw sources")
		fs.Func("payload-type", "RTP payload type (0-127)", func(s string) error {
			var pt uint
			if _, err := fmt.Sscanf(s, "%d", &pt); err != nil || pt > 127 {
				return fmt.Errorf("invalid payload type %q", s)
			}
			cfg.Stream.PayloadType = uint8(pt)
			return nil
		})
		fs.Func("fps", "Frames per second", func(s string) error {
			var fps uint
			if _, err := fmt.Sscanf(s, "%d", &fps); err != nil || fps == 0 {
				return fmt.Errorf("invalid frame rate %q", s)
			}
			cfg.Stream.FrameRate = uint32(fps)
			return nil
		})
	case modeRecv:
		fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "Address to receive on")
		fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory for reassembled frames")
		fs.DurationVar(&cfg.Stream.FrameTimeout, "frame-timeout", cfg.Stream.FrameTimeout, "Drop partial frames idle this long")
	}

	return fs
}

// ParseArgs builds the configuration for "tilestream <mode> [flags]".
// Flags given on the command line win over values from -config.
func ParseArgs(args []string) (*CLIConfig, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing mode: expected %q or %q", modeSend, modeRecv)
	}

	mode := args[0]
	if mode != modeSend && mode != modeRecv {
		return nil, fmt.Errorf("unknown mode %q: expected %q or %q", mode, modeSend, modeRecv)
	}

	cfg := DefaultCLIConfig()
	fs := newFlagSet(mode, cfg)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	if cfg.configPath != "" {
		if err := LoadConfigFile(cfg, cfg.configPath); err != nil {
			return nil, err
		}
		// Re-apply explicit flags on top of the file.
		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}
	}

	cfg.Mode = mode
	return cfg, validateCLIConfig(cfg)
}

// validateCLIConfig validates the CLI configuration.
func validateCLIConfig(cfg *CLIConfig) error {
	if err := cfg.Stream.Validate(); err != nil {
		return err
	}

	switch cfg.Mode {
	case modeSend:
		if cfg.File == "" {
			return fmt.Errorf("source file cannot be empty")
		}
		if cfg.Addr == "" {
			return fmt.Errorf("receiver address cannot be empty")
		}
		if cfg.Format != formatMJPEG && cfg.Format != formatRaw {
			return fmt.Errorf("unknown format %q", cfg.Format)
		}
		if cfg.Format == formatRaw && cfg.FrameSize <= 0 {
			return fmt.Errorf("frame size must be positive")
		}
	case modeRecv:
		if cfg.Listen == "" {
			return fmt.Errorf("listen address cannot be empty")
		}
		if cfg.OutDir == "" {
			return fmt.Errorf("output directory cannot be empty")
		}
	}

	if cfg.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}
