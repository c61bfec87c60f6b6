// Command encode synthesizes one second of test-pattern video (25 frames at
// 352x288) and encodes it with the named codec.
//
// Usage: encode <output file> <codec name>
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zsiec/transcode/codec"
	_ "github.com/zsiec/transcode/codec/mpv"
	"github.com/zsiec/transcode/media"
	"github.com/zsiec/transcode/pipeline"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) <= 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output file> <codec name>\n", os.Args[0])
		os.Exit(0)
	}
	outPath, codecName := os.Args[1], os.Args[2]

	c, err := codec.FindEncoder(codecName)
	if err != nil {
		slog.Error("codec not found", "codec", codecName, "error", err)
		os.Exit(1)
	}

	cfg := codec.Config{
		Width:       352,
		Height:      288,
		PixelFormat: media.FormatYUV420P,
		BitRate:     400_000,
		FrameRate:   25,
		GOPSize:     10,
		MaxBFrames:  0,
	}

	f, err := os.Create(outPath)
	if err != nil {
		slog.Error("could not open output file", "path", outPath, "error", err)
		os.Exit(1)
	}

	if _, err := pipeline.Encode(f, c, cfg, 25); err != nil {
		f.Close()
		slog.Error("encode failed", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		slog.Error("closing output file", "error", err)
		os.Exit(1)
	}
}
