package codec

import (
	"errors"
	"testing"
)

func TestRegistry_FindMiss(t *testing.T) {
	if _, err := FindEncoder("no-such-codec"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindEncoder miss = %v, want ErrNotFound", err)
	}
	if _, err := FindDecoder("no-such-codec"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindDecoder miss = %v, want ErrNotFound", err)
	}
	if _, err := NewParser("no-such-codec"); !errors.Is(err, ErrNotFound) {
		t.Errorf("NewParser miss = %v, want ErrNotFound", err)
	}
}

func TestRegistry_RoleFiltering(t *testing.T) {
	Register(&Codec{
		Name:       "decode-only",
		NewDecoder: func(Config) (Decoder, error) { return nil, nil },
	})

	if _, err := FindDecoder("decode-only"); err != nil {
		t.Errorf("FindDecoder: %v", err)
	}
	if _, err := FindEncoder("decode-only"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindEncoder on decode-only codec = %v, want ErrNotFound", err)
	}
}
