// Package main provides tilestream, a command-line sender and receiver for
// frames carried as tiled RTP datagrams over UDP.
//
//	tilestream send -file movie.mjpeg -addr 192.0.2.10:25000 -fps 25
//	tilestream recv -listen 0.0.0.0:25000 -out frames
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/opd-ai/tilertp/rtp"
	"github.com/opd-ai/tilertp/stream"
	"github.com/opd-ai/tilertp/transport"
	"github.com/sirupsen/logrus"
)

const (
	modeSend = "send"
	modeRecv = "recv"
)

// printUsage prints the usage information.
func printUsage() {
	fmt.Println("tilestream - tiled RTP frame streaming")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s send -file FILE -addr HOST:PORT [options]\n", os.Args[0])
	fmt.Printf("  %s recv -listen HOST:PORT -out DIR [options]\n", os.Args[0])
	fmt.Println()
	for _, mode := range []string{modeSend, modeRecv} {
		fmt.Printf("%s options:\n", mode)
		fs := newFlagSet(mode, DefaultCLIConfig())
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		fmt.Println()
	}
	fmt.Println("Examples:")
	fmt.Printf("  # Stream an MJPEG file at 25 fps\n")
	fmt.Printf("  %s send -file movie.mjpeg -addr 127.0.0.1:25000\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # Receive for one minute with debug logging\n")
	fmt.Printf("  %s recv -listen :25000 -out frames -duration 1m -log-level debug\n", os.Args[0])
}

// setupLogging configures the logrus level, formatter and output.
// The returned closer releases the log file, if any.
func setupLogging(cfg *CLIConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.LogFile == "" {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f, nil
}

// runSend streams every frame of the source file, paced at the configured frame rate.
func runSend(ctx context.Context, cfg *CLIConfig) error {
	src, err := os.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	frames, err := NewFrameReader(src, cfg.Format, cfg.FrameSize)
	if err != nil {
		return err
	}

	remote, err := net.ResolveUDPAddr("udp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to resolve receiver address: %w", err)
	}

	tr, err := transport.NewUDPTransport(cfg.Listen)
	if err != nil {
		return err
	}
	defer tr.Close()

	sender, err := stream.NewSender(cfg.Stream, tr, remote)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.Stream.FrameInterval())
	defer ticker.Stop()
	stats := newStatsTicker(cfg.StatsEvery)
	defer stats.Stop()

	for {
		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read frame: %w", err)
		}

		if err := sender.SendFrame(frame); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logStatistics("send", sender.Statistics())
			return nil
		case <-stats.C:
			logStatistics("send", sender.Statistics())
		case <-ticker.C:
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "runSend",
		"frames":   frames.Count(),
	}).Info("Source exhausted")
	logStatistics("send", sender.Statistics())
	return nil
}

// runRecv writes every reassembled frame to the output directory until cancelled.
func runRecv(ctx context.Context, cfg *CLIConfig) error {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tr, err := transport.NewUDPTransport(cfg.Listen)
	if err != nil {
		return err
	}
	defer tr.Close()

	var written atomic.Uint64
	receiver, err := stream.NewReceiver(cfg.Stream, tr, func(frame *rtp.Frame, addr net.Addr) {
		n := written.Add(1)
		if err := writeFrame(cfg.OutDir, n, frame); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "runRecv",
				"frame_id": frame.ID,
				"error":    err.Error(),
			}).Error("Failed to write frame")
		}
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "runRecv",
		"local_addr": tr.LocalAddr().String(),
		"out_dir":    cfg.OutDir,
	}).Info("Receiving frames")

	expire := time.NewTicker(cfg.Stream.FrameTimeout)
	defer expire.Stop()
	stats := newStatsTicker(cfg.StatsEvery)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			logStatistics("recv", receiver.Statistics())
			return nil
		case <-expire.C:
			if n := receiver.Expire(); n > 0 {
				logrus.WithFields(logrus.Fields{
					"function": "runRecv",
					"expired":  n,
				}).Warn("Dropped incomplete frames")
			}
		case <-stats.C:
			logStatistics("recv", receiver.Statistics())
		}
	}
}

// writeFrame stores one frame as DIR/frame-<n>.bin.
func writeFrame(dir string, n uint64, frame *rtp.Frame) error {
	name := filepath.Join(dir, fmt.Sprintf("frame-%08d.bin", n))
	return os.WriteFile(name, frame.Data, 0o644)
}

// statsTicker is a ticker whose channel never fires when disabled.
type statsTicker struct {
	C      <-chan time.Time
	ticker *time.Ticker
}

func newStatsTicker(every time.Duration) *statsTicker {
	if every <= 0 {
		return &statsTicker{C: make(chan time.Time)}
	}
	t := time.NewTicker(every)
	return &statsTicker{C: t.C, ticker: t}
}

func (s *statsTicker) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func logStatistics(mode string, s stream.Statistics) {
	logrus.WithFields(logrus.Fields{
		"function":          "logStatistics",
		"mode":              mode,
		"packets_sent":      s.PacketsSent,
		"frames_sent":       s.FramesSent,
		"packets_received":  s.PacketsReceived,
		"packets_truncated": s.PacketsTruncated,
		"packets_foreign":   s.PacketsForeign,
		"packets_lost":      s.PacketsLost,
		"packets_late":      s.PacketsLate,
		"frames_completed":  s.FramesCompleted,
		"frames_dropped":    s.FramesDropped,
		"uptime":            time.Since(s.Created).Round(time.Second).String(),
	}).Info("Stream statistics")
}

func run(ctx context.Context, cfg *CLIConfig) error {
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	if cfg.Mode == modeSend {
		return runSend(ctx, cfg)
	}
	return runRecv(ctx, cfg)
}

// main is the entry point for tilestream.
func main() {
	cfg, err := ParseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) || (len(os.Args) > 1 && (os.Args[1] == "-help" || os.Args[1] == "-h")) {
		printUsage()
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(1)
	}

	logCloser, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"mode":     cfg.Mode,
			"error":    err.Error(),
		}).Error("tilestream failed")
		stop()
		logCloser.Close()
		os.Exit(1)
	}
}
