// Package codec defines the contracts between the exchange driver and a
// codec engine: the submit/drain call surface, its sentinel back-pressure
// and end-of-stream signals, session configuration, hardware capability
// advertisement, and a name-based registry.
//
// An engine is a stateful object bound to one codec and one configuration.
// It may buffer an unbounded, codec-dependent number of items internally;
// callers learn about that queue only through the Send/Receive protocol.
package codec

import (
	"errors"

	"github.com/zsiec/transcode/media"
)

// Sentinel results of the submit/drain protocol. Both are expected protocol
// states, not failures; any other non-nil error from an engine is fatal to
// the session.
var (
	// ErrAgain is the back-pressure signal: the engine cannot produce more
	// output until it receives another submission.
	ErrAgain = errors.New("codec: not ready, more input required")

	// ErrEOF is the terminal drain signal: the engine has been flushed and
	// will never produce more output for this session.
	ErrEOF = errors.New("codec: end of stream reached")
)

// ErrNotFound is wrapped by registry lookups for unknown codec names.
var ErrNotFound = errors.New("codec: codec not found")

// Config describes one engine session. It is immutable once the engine is
// created; every frame submitted to or received from the session must match
// its dimensions and pixel format.
type Config struct {
	Width       int
	Height      int
	PixelFormat media.PixelFormat

	BitRate    int64
	FrameRate  int // frames per second; the time base is 1/FrameRate
	GOPSize    int
	MaxBFrames int

	// Options carries free-form codec-private settings (e.g. an H.264
	// encoder preset). Engines ignore keys they do not understand.
	Options map[string]string

	// HWDevice, when set, binds the session to an accelerator: decoders
	// emit device-resident frames in SurfaceFormat instead of host frames.
	HWDevice      HWDevice
	SurfaceFormat media.PixelFormat
}

// HWDevice is the engine-side view of an accelerator context: enough to
// place decoded pixel data into device memory and hand back a surface
// handle. The full device API lives in package hwaccel.
type HWDevice interface {
	Upload(format media.PixelFormat, width, height int, packed []byte) (uint64, error)
}

// Encoder consumes raw frames and produces compressed packets. Send(nil)
// enters the flush phase; Receive then yields everything still buffered and
// finally ErrEOF. The encoder never takes ownership of submitted frames.
type Encoder interface {
	Send(fr *media.Frame) error
	Receive() (*media.Packet, error)
	Close() error
}

// Decoder consumes compressed packets and produces raw frames. Send(nil)
// enters the flush phase. Ownership of each produced frame passes to the
// caller on successful Receive.
type Decoder interface {
	Send(pkt *media.Packet) error
	Receive() (*media.Frame, error)
	Close() error
}

// Parser segments a raw byte stream into access units for a specific codec.
// Parse consumes up to len(data) bytes and returns how many it took plus, if
// one completed, a unit. A nil unit means more input is needed, never end of
// stream. Parsers carry partial units across calls and must not discard
// unconsumed bytes. Flush returns any final carried unit once input is
// exhausted.
type Parser interface {
	Parse(data []byte) (consumed int, unit []byte, err error)
	Flush() []byte
}

// MethodDeviceContext flags a hardware configuration that attaches the
// accelerator through a device context on the session.
const MethodDeviceContext = 1 << 0

// HWConfig advertises one way a codec can use an accelerator: the device
// type it supports, how it binds (Methods flags), and the sentinel surface
// format that marks frames still resident on that device.
type HWConfig struct {
	DeviceType    string
	Methods       int
	SurfaceFormat media.PixelFormat
}

// Codec describes one registered codec: its name, conventions, hardware
// configurations, and constructors for the engine roles it supports. A nil
// constructor means the codec does not implement that role.
type Codec struct {
	Name string

	// MPEGEndCode marks codecs whose byte streams conventionally end with
	// the 4-byte MPEG end-of-stream marker appended after the last unit.
	MPEGEndCode bool

	HWConfigs []HWConfig

	NewEncoder func(Config) (Encoder, error)
	NewDecoder func(Config) (Decoder, error)
	NewParser  func() Parser
}
