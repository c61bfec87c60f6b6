package hwaccel

import (
	"fmt"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

// Binding associates an open device context with the sentinel surface format
// a codec produces on that device. It is created before the engine session
// opens and scoped to that session; the exchange driver and materializer
// share it explicitly rather than through process-wide state.
type Binding struct {
	Device        *Device
	SurfaceFormat media.PixelFormat
}

// NewBinding walks the codec's advertised hardware configurations for one
// that attaches via a device context on the requested device type, records
// its surface format, and opens the device. It fails if the codec has no
// such configuration.
func NewBinding(c *codec.Codec, t DeviceType) (*Binding, error) {
	var surfaceFormat media.PixelFormat
	found := false
	for _, hc := range c.HWConfigs {
		if hc.Methods&codec.MethodDeviceContext != 0 && hc.DeviceType == t.String() {
			surfaceFormat = hc.SurfaceFormat
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("hwaccel: codec %s does not support device type %s", c.Name, t)
	}

	dev, err := NewDevice(t)
	if err != nil {
		return nil, err
	}
	return &Binding{Device: dev, SurfaceFormat: surfaceFormat}, nil
}

// SessionConfig returns cfg with the binding attached, ready to open a
// device-bound decoder session.
func (b *Binding) SessionConfig(cfg codec.Config) codec.Config {
	cfg.HWDevice = b.Device
	cfg.SurfaceFormat = b.SurfaceFormat
	return cfg
}

// Materialize converts a decoded frame into a tightly packed host buffer of
// exactly the packed size for the frame's true format and dimensions. Frames
// in the binding's surface format are first transferred off the device; the
// intermediate host frame and the device surface are always released before
// returning, on success and failure alike.
func (b *Binding) Materialize(fr *media.Frame) ([]byte, error) {
	target := fr
	if fr.Format == b.SurfaceFormat {
		sw, err := b.Device.Transfer(fr)
		if err != nil {
			return nil, fmt.Errorf("hwaccel: transferring frame to system memory: %w", err)
		}
		defer sw.Release()
		defer b.Device.FreeSurface(fr.Surface)
		target = sw
	}

	buf, err := target.CopyToBuffer()
	if err != nil {
		return nil, fmt.Errorf("hwaccel: packing frame: %w", err)
	}
	return buf, nil
}
