package media

import "fmt"

// PixelFormat identifies the memory layout of a Frame. Formats split into two
// disjoint domains: host formats, whose plane data is directly addressable,
// and device formats, which are opaque surface handles living on an
// accelerator until transferred back with hwaccel.Device.Transfer.
type PixelFormat int

const (
	FormatNone PixelFormat = iota

	// Host formats.
	FormatYUV420P
	FormatYUV422P
	FormatGray8
	FormatRGB24
	FormatNV12

	// Device surface formats. A frame carrying one of these holds no plane
	// data; its Surface field references memory owned by an accelerator.
	FormatCUDA
	FormatVAAPI
	FormatQSV
	FormatVideoToolbox
)

var formatNames = map[PixelFormat]string{
	FormatNone:         "none",
	FormatYUV420P:      "yuv420p",
	FormatYUV422P:      "yuv422p",
	FormatGray8:        "gray8",
	FormatRGB24:        "rgb24",
	FormatNV12:         "nv12",
	FormatCUDA:         "cuda",
	FormatVAAPI:        "vaapi",
	FormatQSV:          "qsv",
	FormatVideoToolbox: "videotoolbox",
}

func (f PixelFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("pixfmt(%d)", int(f))
}

// ParseFormat resolves a pixel format by its canonical name.
func ParseFormat(name string) (PixelFormat, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatNone, fmt.Errorf("media: unknown pixel format %q", name)
}

// IsDevice reports whether f is a device surface format.
func (f PixelFormat) IsDevice() bool {
	return f >= FormatCUDA && f <= FormatVideoToolbox
}

// PlaneCount returns the number of planes a host-format frame carries.
// Device formats carry none.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case FormatYUV420P, FormatYUV422P:
		return 3
	case FormatNV12:
		return 2
	case FormatGray8, FormatRGB24:
		return 1
	default:
		return 0
	}
}

// PlaneDims returns the packed row width in bytes and the row count for one
// plane of a host-format image. Chroma planes of subsampled formats round up
// so odd dimensions remain representable.
func (f PixelFormat) PlaneDims(plane, width, height int) (rowBytes, rows int) {
	halfW := (width + 1) / 2
	halfH := (height + 1) / 2
	switch f {
	case FormatYUV420P:
		if plane == 0 {
			return width, height
		}
		return halfW, halfH
	case FormatYUV422P:
		if plane == 0 {
			return width, height
		}
		return halfW, height
	case FormatNV12:
		if plane == 0 {
			return width, height
		}
		return 2 * halfW, halfH
	case FormatGray8:
		return width, height
	case FormatRGB24:
		return 3 * width, height
	}
	return 0, 0
}

// BufferSize returns the exact number of bytes a tightly packed image of the
// given format and dimensions occupies, independent of any stride padding a
// decoder may have applied to its internal buffers.
func BufferSize(f PixelFormat, width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("media: invalid dimensions %dx%d", width, height)
	}
	planes := f.PlaneCount()
	if planes == 0 {
		return 0, fmt.Errorf("media: format %s has no addressable planes", f)
	}
	total := 0
	for p := 0; p < planes; p++ {
		rowBytes, rows := f.PlaneDims(p, width, height)
		total += rowBytes * rows
	}
	return total, nil
}
