// Package pipeline wires the bitstream splitter, codec engines, and exchange
// driver into complete encode, decode, and hardware-decode runs. The command
// binaries stay thin argument-parsing shells over these functions.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/exchange"
	"github.com/zsiec/transcode/hwaccel"
	"github.com/zsiec/transcode/media"
	"github.com/zsiec/transcode/splitter"
)

// readChunkSize is the raw input read granularity on the decode path. Unit
// boundaries do not align with reads; the splitter carries the remainder.
const readChunkSize = 4096

// endCode is the MPEG end-of-stream marker appended after the last flushed
// unit for codecs that declare the convention.
var endCode = []byte{0x00, 0x00, 0x01, 0xB7}

// Encode synthesizes `frames` test-pattern pictures, runs them through one
// encoder session, and writes every produced unit to w in drain order. The
// input frame is allocated once and repopulated per cycle; it is never owned
// by the engine. Returns the number of units written.
func Encode(w io.Writer, c *codec.Codec, cfg codec.Config, frames int) (int, error) {
	log := slog.With("component", "encode", "codec", c.Name)

	enc, err := c.NewEncoder(cfg)
	if err != nil {
		return 0, fmt.Errorf("opening encoder: %w", err)
	}
	defer enc.Close()

	fr, err := media.NewFrame(cfg.PixelFormat, cfg.Width, cfg.Height)
	if err != nil {
		return 0, err
	}
	defer fr.Release()

	drv := exchange.New[media.Frame, *media.Packet](enc, func(pkt *media.Packet) error {
		log.Debug("write packet", "pts", pkt.PTS, "size", len(pkt.Data))
		_, werr := w.Write(pkt.Data)
		return werr
	})

	for i := 0; i < frames; i++ {
		FillRamp(fr, i)
		fr.PTS = int64(i)
		log.Debug("send frame", "pts", fr.PTS)
		if err := drv.Cycle(fr); err != nil {
			return drv.Produced(), err
		}
	}
	if err := drv.Flush(); err != nil {
		return drv.Produced(), err
	}

	if c.MPEGEndCode {
		if _, err := w.Write(endCode); err != nil {
			return drv.Produced(), err
		}
	}
	log.Info("encode complete", "frames", frames, "units", drv.Produced())
	return drv.Produced(), nil
}

// Decode reads a raw byte stream from r, splits it into access units, runs
// them through one decoder session, and hands every produced picture to sink
// with a 1-based sequence index. The frame is released as soon as sink
// returns. Returns the number of pictures decoded.
func Decode(r io.Reader, c *codec.Codec, cfg codec.Config, sink func(seq int, fr *media.Frame) error) (int, error) {
	log := slog.With("component", "decode", "codec", c.Name)

	dec, err := c.NewDecoder(cfg)
	if err != nil {
		return 0, fmt.Errorf("opening decoder: %w", err)
	}
	defer dec.Close()

	sp := splitter.New(c.NewParser())

	seq := 0
	drv := exchange.New[media.Packet, *media.Frame](dec, func(fr *media.Frame) error {
		seq++
		log.Debug("picture ready", "seq", seq, "pts", fr.PTS)
		return sink(seq, fr)
	})

	// Units are submitted as the splitter completes them, and released once
	// the cycle that consumed them has fully drained.
	submit := func(pkt *media.Packet) error {
		cerr := drv.Cycle(pkt)
		pkt.Release()
		return cerr
	}

	buf := make([]byte, readChunkSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if err := sp.Feed(buf[:n], submit); err != nil {
				return seq, err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return seq, fmt.Errorf("reading input: %w", rerr)
		}
	}
	if last := sp.Flush(); last != nil {
		if err := submit(last); err != nil {
			return seq, err
		}
	}
	if err := drv.Flush(); err != nil {
		return seq, err
	}

	log.Info("decode complete", "pictures", seq)
	return seq, nil
}

// HWDecode decodes on an accelerator-bound session and writes each picture,
// materialized to a tightly packed host buffer, contiguously to w. Frames
// the engine produced in the binding's surface format are transferred off
// the device; the rest are packed directly.
func HWDecode(r io.Reader, w io.Writer, c *codec.Codec, b *hwaccel.Binding, cfg codec.Config) (int, error) {
	cfg = b.SessionConfig(cfg)
	return Decode(r, c, cfg, func(seq int, fr *media.Frame) error {
		buf, err := b.Materialize(fr)
		if err != nil {
			return err
		}
		_, werr := w.Write(buf)
		return werr
	})
}

// FillRamp paints the deterministic moving-gradient test pattern used to
// synthesize encoder input: a luma ramp shifting 3 steps per frame, with
// slower vertical and horizontal chroma drifts on the second and third
// planes when present.
func FillRamp(fr *media.Frame, seq int) {
	planes := fr.Format.PlaneCount()
	if planes >= 1 {
		rowBytes, rows := fr.Format.PlaneDims(0, fr.Width, fr.Height)
		for y := 0; y < rows; y++ {
			for x := 0; x < rowBytes; x++ {
				fr.Data[0][y*fr.Stride[0]+x] = byte(x + y + seq*3)
			}
		}
	}
	if planes >= 3 {
		rowBytes, rows := fr.Format.PlaneDims(1, fr.Width, fr.Height)
		for y := 0; y < rows; y++ {
			for x := 0; x < rowBytes; x++ {
				fr.Data[1][y*fr.Stride[1]+x] = byte(128 + y + seq*2)
				fr.Data[2][y*fr.Stride[2]+x] = byte(64 + x + seq*5)
			}
		}
	}
}

// WritePGM writes plane 0 of a host frame as an 8-bit binary portable
// graymap, one packed row at a time.
func WritePGM(w io.Writer, fr *media.Frame) error {
	if fr.Format.IsDevice() {
		return fmt.Errorf("pipeline: cannot write device-resident frame as PGM")
	}
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", fr.Width, fr.Height); err != nil {
		return err
	}
	rowBytes, rows := fr.Format.PlaneDims(0, fr.Width, fr.Height)
	for y := 0; y < rows; y++ {
		row := fr.Data[0][y*fr.Stride[0] : y*fr.Stride[0]+rowBytes]
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
