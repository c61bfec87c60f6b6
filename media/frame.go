// Package media defines the picture and packet types that flow through the
// transcode pipeline, from bitstream splitting through codec exchange to
// materialized output, along with pixel-format geometry and packed-size
// accounting.
package media

import (
	"fmt"
	"math"
)

// NoPTS marks a timestamp as unspecified.
const NoPTS = math.MinInt64

// strideAlign pads each plane row to this boundary when allocating frames,
// mirroring the alignment real decoders apply for SIMD access. Packed output
// must never assume Stride == row width.
const strideAlign = 64

// Frame is one raw picture: an owned, strided multi-plane raster buffer.
// Host-format frames carry one Data slice per plane, each Stride bytes per
// row. Device-format frames carry no plane data; Surface references pixel
// memory owned by an accelerator device.
type Frame struct {
	Format PixelFormat
	Width  int
	Height int
	PTS    int64

	Data   [][]byte
	Stride []int

	// Surface is the accelerator surface handle when Format.IsDevice().
	Surface uint64
}

// NewFrame allocates a host-format frame with stride-aligned planes. The
// returned frame owns its buffers; callers reusing one frame across encode
// cycles repopulate Data in place.
func NewFrame(f PixelFormat, width, height int) (*Frame, error) {
	if f.IsDevice() {
		return nil, fmt.Errorf("media: cannot allocate device format %s on host", f)
	}
	if _, err := BufferSize(f, width, height); err != nil {
		return nil, err
	}
	planes := f.PlaneCount()
	fr := &Frame{
		Format: f,
		Width:  width,
		Height: height,
		PTS:    NoPTS,
		Data:   make([][]byte, planes),
		Stride: make([]int, planes),
	}
	for p := 0; p < planes; p++ {
		rowBytes, rows := f.PlaneDims(p, width, height)
		stride := (rowBytes + strideAlign - 1) / strideAlign * strideAlign
		fr.Data[p] = make([]byte, stride*rows)
		fr.Stride[p] = stride
	}
	return fr, nil
}

// Release drops the frame's buffers and surface reference. Every frame must
// be released exactly once by whichever stage owns it last.
func (fr *Frame) Release() {
	fr.Data = nil
	fr.Stride = nil
	fr.Surface = 0
}

// CopyToBuffer copies the frame plane by plane into a newly allocated,
// tightly packed buffer of exactly BufferSize bytes, discarding stride
// padding. Device-resident frames must be transferred to a host frame first.
func (fr *Frame) CopyToBuffer() ([]byte, error) {
	if fr.Format.IsDevice() {
		return nil, fmt.Errorf("media: frame in device format %s is not host-readable", fr.Format)
	}
	size, err := BufferSize(fr.Format, fr.Width, fr.Height)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	off := 0
	for p := 0; p < fr.Format.PlaneCount(); p++ {
		rowBytes, rows := fr.Format.PlaneDims(p, fr.Width, fr.Height)
		if p >= len(fr.Data) || len(fr.Data[p]) < fr.Stride[p]*rows {
			return nil, fmt.Errorf("media: plane %d buffer too small", p)
		}
		for r := 0; r < rows; r++ {
			copy(buf[off:off+rowBytes], fr.Data[p][r*fr.Stride[p]:])
			off += rowBytes
		}
	}
	return buf, nil
}

// FillFromPacked populates the frame's strided planes from a tightly packed
// buffer, the inverse of CopyToBuffer.
func (fr *Frame) FillFromPacked(packed []byte) error {
	size, err := BufferSize(fr.Format, fr.Width, fr.Height)
	if err != nil {
		return err
	}
	if len(packed) != size {
		return fmt.Errorf("media: packed buffer is %d bytes, want %d", len(packed), size)
	}
	off := 0
	for p := 0; p < fr.Format.PlaneCount(); p++ {
		rowBytes, rows := fr.Format.PlaneDims(p, fr.Width, fr.Height)
		for r := 0; r < rows; r++ {
			copy(fr.Data[p][r*fr.Stride[p]:r*fr.Stride[p]+rowBytes], packed[off:])
			off += rowBytes
		}
	}
	return nil
}
