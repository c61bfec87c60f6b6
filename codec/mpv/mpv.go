// Package mpv implements the built-in software codec "mpv", an MPEG-flavored
// demonstration codec exercising the full submit/drain exchange protocol.
//
// The byte stream is a sequence of access units framed by 00 00 01 start
// codes, one coded picture per unit. Intra units carry tightly packed plane
// data; predicted units carry a byte-wise delta against the previous
// reconstructed picture, refreshed every GOP. Unit bodies are emulation-
// prevention escaped so start codes never appear inside a unit, which lets
// the parser segment the stream with a plain start-code scan. The encoder
// supports a configurable reorder delay (MaxBFrames), holding that many
// packets back until flush, so back-pressure on drain is real.
//
// Importing this package registers the codec under the name "mpv".
package mpv

import (
	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

// Name is the registry name of the codec.
const Name = "mpv"

func init() {
	codec.Register(&codec.Codec{
		Name:        Name,
		MPEGEndCode: true,
		HWConfigs: []codec.HWConfig{
			{DeviceType: "cuda", Methods: codec.MethodDeviceContext, SurfaceFormat: media.FormatCUDA},
			{DeviceType: "vaapi", Methods: codec.MethodDeviceContext, SurfaceFormat: media.FormatVAAPI},
			{DeviceType: "qsv", Methods: codec.MethodDeviceContext, SurfaceFormat: media.FormatQSV},
			{DeviceType: "videotoolbox", Methods: codec.MethodDeviceContext, SurfaceFormat: media.FormatVideoToolbox},
		},
		NewEncoder: newEncoder,
		NewDecoder: newDecoder,
		NewParser:  func() codec.Parser { return &parser{} },
	})
}
