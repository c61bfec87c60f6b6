package hwaccel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

func TestFindTypeByName(t *testing.T) {
	dt, err := FindTypeByName("vaapi")
	if err != nil || dt != DeviceVAAPI {
		t.Errorf("FindTypeByName(vaapi) = %v, %v", dt, err)
	}
	if _, err := FindTypeByName("opencl"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("FindTypeByName(opencl) = %v, want ErrDeviceNotFound", err)
	}
}

func TestTypes_CoversAllNames(t *testing.T) {
	for _, dt := range Types() {
		got, err := FindTypeByName(dt.String())
		if err != nil || got != dt {
			t.Errorf("type %s does not round-trip through FindTypeByName", dt)
		}
	}
}

func TestDevice_UploadTransferRoundTrip(t *testing.T) {
	dev, err := NewDevice(DeviceCUDA)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}

	size, _ := media.BufferSize(media.FormatNV12, 40, 30)
	packed := make([]byte, size)
	for i := range packed {
		packed[i] = byte(i * 3)
	}

	id, err := dev.Upload(media.FormatNV12, 40, 30, packed)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	src := &media.Frame{Format: media.FormatCUDA, Width: 40, Height: 30, PTS: 7, Surface: id}
	sw, err := dev.Transfer(src)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	defer sw.Release()

	if sw.Format != media.FormatNV12 || sw.PTS != 7 {
		t.Errorf("transferred frame %s pts %d, want nv12 pts 7", sw.Format, sw.PTS)
	}
	got, err := sw.CopyToBuffer()
	if err != nil {
		t.Fatalf("CopyToBuffer: %v", err)
	}
	if !bytes.Equal(got, packed) {
		t.Error("pixel data differs after upload/transfer round trip")
	}
}

func TestDevice_UploadSizeMismatch(t *testing.T) {
	dev, _ := NewDevice(DeviceQSV)
	if _, err := dev.Upload(media.FormatGray8, 10, 10, make([]byte, 5)); err == nil {
		t.Error("expected error for short upload buffer")
	}
}

func TestDevice_TransferUnknownSurface(t *testing.T) {
	dev, _ := NewDevice(DeviceCUDA)
	src := &media.Frame{Format: media.FormatCUDA, Surface: 99}
	if _, err := dev.Transfer(src); err == nil {
		t.Error("expected error for unknown surface handle")
	}
}

func testCodec() *codec.Codec {
	return &codec.Codec{
		Name: "testcodec",
		HWConfigs: []codec.HWConfig{
			{DeviceType: "cuda", Methods: 0, SurfaceFormat: media.FormatCUDA},
			{DeviceType: "vaapi", Methods: codec.MethodDeviceContext, SurfaceFormat: media.FormatVAAPI},
		},
	}
}

func TestNewBinding(t *testing.T) {
	b, err := NewBinding(testCodec(), DeviceVAAPI)
	if err != nil {
		t.Fatalf("NewBinding: %v", err)
	}
	if b.SurfaceFormat != media.FormatVAAPI {
		t.Errorf("surface format %s, want vaapi", b.SurfaceFormat)
	}
	if b.Device.Type() != DeviceVAAPI {
		t.Errorf("device type %s, want vaapi", b.Device.Type())
	}
}

func TestNewBinding_RequiresDeviceContextMethod(t *testing.T) {
	// The cuda config exists but lacks the device-context method flag.
	if _, err := NewBinding(testCodec(), DeviceCUDA); err == nil {
		t.Error("expected error for config without device-context method")
	}
	if _, err := NewBinding(testCodec(), DeviceQSV); err == nil {
		t.Error("expected error for unadvertised device type")
	}
}

func TestMaterialize_DeviceFrame(t *testing.T) {
	b, err := NewBinding(testCodec(), DeviceVAAPI)
	if err != nil {
		t.Fatalf("NewBinding: %v", err)
	}

	size, _ := media.BufferSize(media.FormatYUV420P, 36, 20)
	packed := make([]byte, size)
	for i := range packed {
		packed[i] = byte(200 - i)
	}
	id, err := b.Device.Upload(media.FormatYUV420P, 36, 20, packed)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	fr := &media.Frame{Format: b.SurfaceFormat, Width: 36, Height: 20, Surface: id}
	buf, err := b.Materialize(fr)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(buf) != size {
		t.Errorf("materialized %d bytes, want packed size %d", len(buf), size)
	}
	if !bytes.Equal(buf, packed) {
		t.Error("materialized bytes differ from uploaded picture")
	}
	if b.Device.SurfaceCount() != 0 {
		t.Errorf("%d surfaces leaked after materialization", b.Device.SurfaceCount())
	}
}

func TestMaterialize_HostFrameBypassesTransfer(t *testing.T) {
	b, err := NewBinding(testCodec(), DeviceVAAPI)
	if err != nil {
		t.Fatalf("NewBinding: %v", err)
	}

	fr, err := media.NewFrame(media.FormatGray8, 33, 10)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer fr.Release()
	for r := 0; r < 10; r++ {
		for x := 0; x < 33; x++ {
			fr.Data[0][r*fr.Stride[0]+x] = byte(r*33 + x)
		}
	}

	buf, err := b.Materialize(fr)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(buf) != 330 {
		t.Errorf("materialized %d bytes, want 330", len(buf))
	}
	if buf[0] != fr.Data[0][0] || buf[33] != fr.Data[0][fr.Stride[0]] {
		t.Error("packed layout does not match source rows")
	}
}
