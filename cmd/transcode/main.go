// Command transcode runs a decode-then-re-encode job described by a YAML
// job file.
//
// Usage: transcode <job file>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/transcode/codec"
	_ "github.com/zsiec/transcode/codec/mpv"
	"github.com/zsiec/transcode/config"
	"github.com/zsiec/transcode/pipeline"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) <= 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <job file>\n", os.Args[0])
		os.Exit(0)
	}

	job, err := config.Load(os.Args[1])
	if err != nil {
		slog.Error("invalid job file", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(ctx, job)
	})
	if err := g.Wait(); err != nil {
		slog.Error("transcode failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, job *config.Job) error {
	dec, err := codec.FindDecoder(job.Decoder)
	if err != nil {
		return err
	}
	enc, err := codec.FindEncoder(job.Encoder.Codec)
	if err != nil {
		return err
	}
	encCfg, err := job.Encoder.SessionConfig()
	if err != nil {
		return err
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(job.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}

	frames, units, err := pipeline.Transcode(ctx, in, out, dec, enc, encCfg)
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	slog.Info("job complete",
		"input", job.Input,
		"output", job.Output,
		"pictures", frames,
		"units", units,
	)
	return nil
}
