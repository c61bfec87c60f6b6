package splitter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zsiec/transcode/codec"
	_ "github.com/zsiec/transcode/codec/mpv"
	"github.com/zsiec/transcode/media"
)

// fixedParser completes one unit every unitLen bytes, consuming only the
// bytes needed to finish the current unit each step.
type fixedParser struct {
	carry   []byte
	unitLen int
}

func (p *fixedParser) Parse(data []byte) (int, []byte, error) {
	need := p.unitLen - len(p.carry)
	if need > len(data) {
		p.carry = append(p.carry, data...)
		return len(data), nil, nil
	}
	unit := append(append([]byte(nil), p.carry...), data[:need]...)
	p.carry = nil
	return need, unit, nil
}

func (p *fixedParser) Flush() []byte {
	unit := p.carry
	p.carry = nil
	return unit
}

func TestFeed_Conservation(t *testing.T) {
	input := make([]byte, 103)
	for i := range input {
		input[i] = byte(i)
	}

	sp := New(&fixedParser{unitLen: 7})
	var units [][]byte
	emit := func(pkt *media.Packet) error {
		units = append(units, pkt.Data)
		return nil
	}

	// Feed in uneven chunks.
	for _, chunk := range [][]byte{input[:1], input[1:5], input[5:40], input[40:41], input[41:]} {
		if err := sp.Feed(chunk, emit); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if last := sp.Flush(); last != nil {
		units = append(units, last.Data)
	}

	var joined []byte
	for _, u := range units {
		joined = append(joined, u...)
	}
	if !bytes.Equal(joined, input) {
		t.Errorf("concatenated units differ from input: got %d bytes, want %d", len(joined), len(input))
	}
}

func TestFeed_ChunkingInvariance(t *testing.T) {
	// Three hand-built access units; bodies contain no start codes.
	var stream []byte
	bodies := [][]byte{
		{0xAA, 0xBB, 0xCC},
		{0x01, 0x02, 0x00, 0xFF, 0x7E},
		{0x55},
	}
	for _, b := range bodies {
		stream = append(stream, 0x00, 0x00, 0x01, 0x10)
		stream = append(stream, b...)
	}

	collect := func(chunkSize int) [][]byte {
		p, err := codec.NewParser("mpv")
		if err != nil {
			t.Fatalf("NewParser: %v", err)
		}
		sp := New(p)
		var units [][]byte
		emit := func(pkt *media.Packet) error {
			units = append(units, pkt.Data)
			return nil
		}
		for off := 0; off < len(stream); off += chunkSize {
			end := off + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			if err := sp.Feed(stream[off:end], emit); err != nil {
				t.Fatalf("Feed(chunk %d): %v", chunkSize, err)
			}
		}
		if last := sp.Flush(); last != nil {
			units = append(units, last.Data)
		}
		return units
	}

	whole := collect(len(stream))
	if len(whole) != 3 {
		t.Fatalf("expected 3 units from single feed, got %d", len(whole))
	}
	for _, chunkSize := range []int{1, 2, 3, 5, 7} {
		chunked := collect(chunkSize)
		if len(chunked) != len(whole) {
			t.Fatalf("chunk size %d: %d units, want %d", chunkSize, len(chunked), len(whole))
		}
		for i := range whole {
			if !bytes.Equal(chunked[i], whole[i]) {
				t.Errorf("chunk size %d: unit %d differs", chunkSize, i)
			}
		}
	}
}

type brokenParser struct {
	consumed int
	err      error
}

func (p *brokenParser) Parse([]byte) (int, []byte, error) { return p.consumed, nil, p.err }
func (p *brokenParser) Flush() []byte                     { return nil }

func TestFeed_ParserError(t *testing.T) {
	wantErr := errors.New("corrupt stream")
	sp := New(&brokenParser{err: wantErr})
	if err := sp.Feed([]byte{1, 2, 3}, nil); !errors.Is(err, wantErr) {
		t.Errorf("Feed = %v, want wrapped parser error", err)
	}
}

func TestFeed_NegativeConsumed(t *testing.T) {
	sp := New(&brokenParser{consumed: -1})
	if err := sp.Feed([]byte{1, 2, 3}, nil); err == nil {
		t.Error("expected error for negative consumed count")
	}
}

func TestFeed_NoProgress(t *testing.T) {
	sp := New(&brokenParser{consumed: 0})
	if err := sp.Feed([]byte{1, 2, 3}, nil); err == nil {
		t.Error("expected error when parser makes no progress")
	}
}
