package mpv

import (
	"encoding/binary"
	"fmt"

	"github.com/zsiec/transcode/media"
)

// Unit types following the start code. EndOfStream is the MPEG end-of-stream
// marker byte, so a stream suffixed with the conventional 00 00 01 B7 end
// code parses as a final, content-free unit.
const (
	unitIntra       = 0x10
	unitPredicted   = 0x11
	unitEndOfStream = 0xB7
)

// Unit body header: pts(8) width(2) height(2) format(1).
const headerLen = 13

const emulationByte = 0x03

var startCode = []byte{0x00, 0x00, 0x01}

// buildUnit assembles one access unit: start code, type byte, then the
// escaped header and payload.
func buildUnit(typ byte, pts int64, width, height int, f media.PixelFormat, payload []byte) []byte {
	body := make([]byte, 0, headerLen+len(payload))
	body = binary.BigEndian.AppendUint64(body, uint64(pts))
	body = binary.BigEndian.AppendUint16(body, uint16(width))
	body = binary.BigEndian.AppendUint16(body, uint16(height))
	body = append(body, byte(f))
	body = append(body, payload...)

	unit := make([]byte, 0, len(startCode)+1+len(body)+len(body)/256+8)
	unit = append(unit, startCode...)
	unit = append(unit, typ)
	return appendEscaped(unit, body)
}

// unitHeader is the decoded fixed portion of an access unit.
type unitHeader struct {
	typ    byte
	pts    int64
	width  int
	height int
	format media.PixelFormat
}

// parseUnit validates framing, unescapes the body, and splits it into header
// and payload. End-of-stream units carry neither.
func parseUnit(unit []byte) (unitHeader, []byte, error) {
	var h unitHeader
	if len(unit) < len(startCode)+1 {
		return h, nil, fmt.Errorf("mpv: unit truncated at %d bytes", len(unit))
	}
	if unit[0] != 0 || unit[1] != 0 || unit[2] != 1 {
		return h, nil, fmt.Errorf("mpv: missing start code")
	}
	h.typ = unit[3]
	if h.typ == unitEndOfStream {
		return h, nil, nil
	}
	if h.typ != unitIntra && h.typ != unitPredicted {
		return h, nil, fmt.Errorf("mpv: unknown unit type 0x%02X", h.typ)
	}
	body := unescape(unit[4:])
	if len(body) < headerLen {
		return h, nil, fmt.Errorf("mpv: unit body %d bytes, want at least %d", len(body), headerLen)
	}
	h.pts = int64(binary.BigEndian.Uint64(body[0:8]))
	h.width = int(binary.BigEndian.Uint16(body[8:10]))
	h.height = int(binary.BigEndian.Uint16(body[10:12]))
	h.format = media.PixelFormat(body[12])
	return h, body[headerLen:], nil
}

// appendEscaped appends src to dst inserting an emulation prevention byte
// wherever two zeros would otherwise be followed by a byte <= 3, so the
// escaped body can never contain a start code.
func appendEscaped(dst, src []byte) []byte {
	zeros := 0
	for _, b := range src {
		if zeros >= 2 && b <= emulationByte {
			dst = append(dst, emulationByte)
			zeros = 0
		}
		dst = append(dst, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return dst
}

// unescape removes emulation prevention bytes, restoring the original body.
func unescape(src []byte) []byte {
	dst := make([]byte, 0, len(src))
	zeros := 0
	for _, b := range src {
		if zeros >= 2 && b == emulationByte {
			zeros = 0
			continue
		}
		dst = append(dst, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return dst
}
