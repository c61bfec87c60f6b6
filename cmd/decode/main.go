// Command decode splits a raw bitstream into access units, decodes them with
// the named codec, and writes each picture's luma plane as a portable
// graymap file named <output file>-<n>.
//
// Usage: decode <input file> <output file> <codec name>
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

	if len(os.Args) <= 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input file> <output file> <codec name>\n", os.Args[0])
		os.Exit(0)
	}
	inPath, outPath, codecName := os.Args[1], os.Args[2], os.Args[3]

	c, err := codec.FindDecoder(codecName)
	if err != nil {
		slog.Error("codec not found", "codec", codecName, "error", err)
		os.Exit(1)
	}

	in, err := os.Open(inPath)
	if err != nil {
		slog.Error("could not open input file", "path", inPath, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	_, err = pipeline.Decode(in, c, codec.Config{}, func(seq int, fr *media.Frame) error {
		name := fmt.Sprintf("%s-%d", outPath, seq)
		slog.Info("saving frame", "seq", seq, "file", name)
		out, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := pipeline.WritePGM(out, fr); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
	if err != nil {
		slog.Error("decode failed", "error", err)
		os.Exit(1)
	}
}
