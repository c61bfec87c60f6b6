package mpv

import (
	"fmt"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

type decoder struct {
	cfg codec.Config

	prev     []byte // previous reconstructed picture, packed
	queue    []*media.Frame
	flushing bool
}

func newDecoder(cfg codec.Config) (codec.Decoder, error) {
	// Dimensions come from the bitstream, as with codecs whose streams are
	// self-describing; configured dimensions are optional cross-checks.
	if cfg.HWDevice != nil && !cfg.SurfaceFormat.IsDevice() {
		return nil, fmt.Errorf("mpv: device-bound session needs a surface format, got %s", cfg.SurfaceFormat)
	}
	return &decoder{cfg: cfg}, nil
}

func (d *decoder) Send(pkt *media.Packet) error {
	if pkt == nil {
		d.flushing = true
		return nil
	}
	if d.flushing {
		return fmt.Errorf("mpv: packet submitted after flush")
	}

	h, payload, err := parseUnit(pkt.Data)
	if err != nil {
		return err
	}
	if h.typ == unitEndOfStream {
		return nil
	}
	if d.cfg.Width > 0 && (h.width != d.cfg.Width || h.height != d.cfg.Height) {
		return fmt.Errorf("mpv: unit %dx%d does not match session %dx%d",
			h.width, h.height, d.cfg.Width, d.cfg.Height)
	}

	size, err := media.BufferSize(h.format, h.width, h.height)
	if err != nil {
		return fmt.Errorf("mpv: bad unit header: %w", err)
	}
	if len(payload) != size {
		return fmt.Errorf("mpv: unit payload %d bytes, want %d", len(payload), size)
	}

	packed := make([]byte, size)
	switch h.typ {
	case unitIntra:
		copy(packed, payload)
	case unitPredicted:
		if d.prev == nil {
			return fmt.Errorf("mpv: predicted unit before any intra unit")
		}
		if len(d.prev) != size {
			return fmt.Errorf("mpv: reference picture size changed mid-stream")
		}
		for i := range payload {
			packed[i] = d.prev[i] + payload[i]
		}
	}
	d.prev = packed

	fr, err := d.emit(h, packed)
	if err != nil {
		return err
	}
	d.queue = append(d.queue, fr)
	return nil
}

// emit wraps a reconstructed packed picture in a Frame: a device surface
// when the session is accelerator-bound, a strided host frame otherwise.
func (d *decoder) emit(h unitHeader, packed []byte) (*media.Frame, error) {
	if d.cfg.HWDevice != nil {
		surface, err := d.cfg.HWDevice.Upload(h.format, h.width, h.height, packed)
		if err != nil {
			return nil, fmt.Errorf("mpv: uploading surface: %w", err)
		}
		return &media.Frame{
			Format:  d.cfg.SurfaceFormat,
			Width:   h.width,
			Height:  h.height,
			PTS:     h.pts,
			Surface: surface,
		}, nil
	}

	fr, err := media.NewFrame(h.format, h.width, h.height)
	if err != nil {
		return nil, fmt.Errorf("mpv: allocating frame: %w", err)
	}
	if err := fr.FillFromPacked(packed); err != nil {
		fr.Release()
		return nil, err
	}
	fr.PTS = h.pts
	return fr, nil
}

func (d *decoder) Receive() (*media.Frame, error) {
	if len(d.queue) == 0 {
		if d.flushing {
			return nil, codec.ErrEOF
		}
		return nil, codec.ErrAgain
	}
	fr := d.queue[0]
	d.queue = d.queue[1:]
	return fr, nil
}

func (d *decoder) Close() error {
	for _, fr := range d.queue {
		fr.Release()
	}
	d.queue = nil
	d.prev = nil
	return nil
}
