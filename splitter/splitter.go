// Package splitter drives a codec bitstream parser over arbitrarily chunked
// raw input, emitting one compressed access unit at a time. The parser owns
// any partial-unit state between calls; the splitter guarantees the whole
// input slice is consumed and that every completed unit is handed off in
// stream order.
package splitter

import (
	"fmt"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

// Splitter is a stateful cursor over a raw byte stream.
type Splitter struct {
	parser codec.Parser
}

// New creates a Splitter over the given parser.
func New(p codec.Parser) *Splitter {
	return &Splitter{parser: p}
}

// Feed consumes buf completely, invoking emit for each access unit the
// parser completes. A step that completes no unit just buffers input; a step
// that consumes nothing and completes nothing is a parser contract violation
// and fails the stream.
func (s *Splitter) Feed(buf []byte, emit func(*media.Packet) error) error {
	for len(buf) > 0 {
		n, unit, err := s.parser.Parse(buf)
		if err != nil {
			return fmt.Errorf("splitter: %w", err)
		}
		if n < 0 || n > len(buf) {
			return fmt.Errorf("splitter: parser consumed %d of %d bytes", n, len(buf))
		}
		if n == 0 && len(unit) == 0 {
			return fmt.Errorf("splitter: parser made no progress")
		}
		buf = buf[n:]
		if len(unit) > 0 {
			if err := emit(&media.Packet{Data: unit, PTS: media.NoPTS}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush returns the final unit carried by the parser after all input has
// been fed, or nil if nothing is pending.
func (s *Splitter) Flush() *media.Packet {
	unit := s.parser.Flush()
	if len(unit) == 0 {
		return nil
	}
	return &media.Packet{Data: unit, PTS: media.NoPTS}
}
