// Package hwaccel provides the accelerator surface binding for hardware
// decode: named device types, a device context owning surface memory, the
// blocking device-to-host transfer, and the materialization step that turns
// any decoded frame into a tightly packed host buffer.
//
// The device here is simulated in process: surfaces live in an arena keyed
// by handle rather than in GPU memory. The contract is the real one: a
// device-resident frame exposes no plane data and must pass through Transfer
// before its pixels are addressable.
package hwaccel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zsiec/transcode/media"
)

// DeviceType names a class of accelerator device.
type DeviceType int

const (
	DeviceNone DeviceType = iota
	DeviceCUDA
	DeviceVAAPI
	DeviceQSV
	DeviceVideoToolbox
)

var deviceNames = map[DeviceType]string{
	DeviceCUDA:         "cuda",
	DeviceVAAPI:        "vaapi",
	DeviceQSV:          "qsv",
	DeviceVideoToolbox: "videotoolbox",
}

func (t DeviceType) String() string {
	if name, ok := deviceNames[t]; ok {
		return name
	}
	return "none"
}

// ErrDeviceNotFound is wrapped by FindTypeByName for unsupported names.
var ErrDeviceNotFound = errors.New("hwaccel: device type not found")

// FindTypeByName resolves a device type by its canonical name.
func FindTypeByName(name string) (DeviceType, error) {
	for t, n := range deviceNames {
		if n == name {
			return t, nil
		}
	}
	return DeviceNone, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}

// Types enumerates the locally supported device types in a stable order,
// for usability listings when a requested type is unavailable.
func Types() []DeviceType {
	return []DeviceType{DeviceCUDA, DeviceVAAPI, DeviceQSV, DeviceVideoToolbox}
}

// surface is one device-resident picture: packed pixel data plus the true
// host format it decodes to on transfer.
type surface struct {
	format media.PixelFormat
	width  int
	height int
	data   []byte
}

// Device is an open accelerator context. It owns all surfaces allocated
// against it; surface handles are only meaningful to the device that issued
// them. Device satisfies codec.HWDevice so engines can upload decode output.
type Device struct {
	typ DeviceType

	mu       sync.Mutex
	nextID   uint64
	surfaces map[uint64]*surface
}

// NewDevice creates a device context of the given type.
func NewDevice(t DeviceType) (*Device, error) {
	if t == DeviceNone {
		return nil, fmt.Errorf("%w: none", ErrDeviceNotFound)
	}
	return &Device{typ: t, surfaces: make(map[uint64]*surface)}, nil
}

// Type returns the device's type.
func (d *Device) Type() DeviceType { return d.typ }

// Upload places a packed host image into device memory and returns its
// surface handle. The packed buffer must be exactly the packed size for the
// given format and dimensions.
func (d *Device) Upload(f media.PixelFormat, width, height int, packed []byte) (uint64, error) {
	size, err := media.BufferSize(f, width, height)
	if err != nil {
		return 0, err
	}
	if len(packed) != size {
		return 0, fmt.Errorf("hwaccel: upload of %d bytes, want %d for %s %dx%d",
			len(packed), size, f, width, height)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.surfaces[d.nextID] = &surface{
		format: f,
		width:  width,
		height: height,
		data:   append([]byte(nil), packed...),
	}
	return d.nextID, nil
}

// Transfer copies a device-resident frame into a newly allocated host frame
// in the surface's true format. This is the single blocking copy that moves
// pixel data off the accelerator; the caller owns the returned frame.
func (d *Device) Transfer(src *media.Frame) (*media.Frame, error) {
	d.mu.Lock()
	s, ok := d.surfaces[src.Surface]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("hwaccel: unknown surface %d", src.Surface)
	}

	fr, err := media.NewFrame(s.format, s.width, s.height)
	if err != nil {
		return nil, err
	}
	if err := fr.FillFromPacked(s.data); err != nil {
		fr.Release()
		return nil, err
	}
	fr.PTS = src.PTS
	return fr, nil
}

// FreeSurface releases a surface's device memory. Freeing an unknown handle
// is a no-op.
func (d *Device) FreeSurface(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.surfaces, id)
}

// SurfaceCount reports live surfaces, for leak checks.
func (d *Device) SurfaceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.surfaces)
}
