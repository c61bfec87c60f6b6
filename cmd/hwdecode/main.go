// Command hwdecode decodes a bitstream on an accelerator-bound session and
// writes every picture, materialized to tightly packed host bytes, to a
// single output file with no per-frame framing. The consumer must know the
// width, height, and pixel format out of band.
//
// Usage: hwdecode <device type> <input file> <output file>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/codec/mpv"
	"github.com/zsiec/transcode/hwaccel"
	"github.com/zsiec/transcode/pipeline"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) <= 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <device type> <input file> <output file>\n", os.Args[0])
		os.Exit(0)
	}
	deviceName, inPath, outPath := os.Args[1], os.Args[2], os.Args[3]

	deviceType, err := hwaccel.FindTypeByName(deviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Device type %q is not supported.\n", deviceName)
		names := make([]string, 0, len(hwaccel.Types()))
		for _, t := range hwaccel.Types() {
			names = append(names, t.String())
		}
		fmt.Fprintf(os.Stderr, "Available device types: %s\n", strings.Join(names, " "))
		os.Exit(1)
	}

	c, err := codec.FindDecoder(mpv.Name)
	if err != nil {
		slog.Error("decoder not found", "error", err)
		os.Exit(1)
	}

	binding, err := hwaccel.NewBinding(c, deviceType)
	if err != nil {
		slog.Error("could not bind accelerator", "device", deviceType.String(), "error", err)
		os.Exit(1)
	}

	in, err := os.Open(inPath)
	if err != nil {
		slog.Error("could not open input file", "path", inPath, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		slog.Error("could not open output file", "path", outPath, "error", err)
		os.Exit(1)
	}

	pictures, err := pipeline.HWDecode(in, out, c, binding, codec.Config{})
	if err != nil {
		out.Close()
		slog.Error("hardware decode failed", "error", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		slog.Error("closing output file", "error", err)
		os.Exit(1)
	}
	slog.Info("done", "pictures", pictures, "device", deviceType.String())
}
