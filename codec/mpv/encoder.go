package mpv

import (
	"fmt"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

type encoder struct {
	cfg codec.Config

	frameIndex int
	prev       []byte // previous reconstructed picture, packed

	// queue holds encoded packets not yet drained. Until flush, the last
	// `delay` packets are withheld to model B-frame reordering depth.
	queue    []*media.Packet
	delay    int
	flushing bool
}

func newEncoder(cfg codec.Config) (codec.Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("mpv: invalid encoder dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PixelFormat.IsDevice() || cfg.PixelFormat.PlaneCount() == 0 {
		return nil, fmt.Errorf("mpv: unsupported encoder pixel format %s", cfg.PixelFormat)
	}
	if cfg.MaxBFrames < 0 {
		return nil, fmt.Errorf("mpv: negative max B-frame count %d", cfg.MaxBFrames)
	}
	if cfg.GOPSize <= 0 {
		cfg.GOPSize = 12
	}
	return &encoder{cfg: cfg, delay: cfg.MaxBFrames}, nil
}

func (e *encoder) Send(fr *media.Frame) error {
	if fr == nil {
		e.flushing = true
		return nil
	}
	if e.flushing {
		return fmt.Errorf("mpv: frame submitted after flush")
	}
	if fr.Format != e.cfg.PixelFormat || fr.Width != e.cfg.Width || fr.Height != e.cfg.Height {
		return fmt.Errorf("mpv: frame %s %dx%d does not match session %s %dx%d",
			fr.Format, fr.Width, fr.Height, e.cfg.PixelFormat, e.cfg.Width, e.cfg.Height)
	}

	packed, err := fr.CopyToBuffer()
	if err != nil {
		return fmt.Errorf("mpv: reading frame: %w", err)
	}

	intra := e.prev == nil || e.frameIndex%e.cfg.GOPSize == 0
	typ := byte(unitIntra)
	payload := packed
	if !intra {
		typ = unitPredicted
		payload = make([]byte, len(packed))
		for i := range packed {
			payload[i] = packed[i] - e.prev[i]
		}
	}
	e.prev = packed
	e.frameIndex++

	unit := buildUnit(typ, fr.PTS, fr.Width, fr.Height, fr.Format, payload)
	e.queue = append(e.queue, &media.Packet{Data: unit, PTS: fr.PTS})
	return nil
}

func (e *encoder) Receive() (*media.Packet, error) {
	if !e.flushing && len(e.queue) <= e.delay {
		return nil, codec.ErrAgain
	}
	if len(e.queue) == 0 {
		if e.flushing {
			return nil, codec.ErrEOF
		}
		return nil, codec.ErrAgain
	}
	pkt := e.queue[0]
	e.queue = e.queue[1:]
	return pkt, nil
}

func (e *encoder) Close() error {
	e.queue = nil
	e.prev = nil
	return nil
}
