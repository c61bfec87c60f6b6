package codec

import (
	"fmt"
	"sync"
)

var (
	regMu    sync.RWMutex
	registry = map[string]*Codec{}
)

// Register adds a codec to the registry. Codec packages call this from their
// init, so importing a codec package makes it findable by name.
func Register(c *Codec) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[c.Name] = c
}

func lookup(name string) (*Codec, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// FindEncoder returns the named codec if it provides an encoder.
func FindEncoder(name string) (*Codec, error) {
	c, ok := lookup(name)
	if !ok || c.NewEncoder == nil {
		return nil, fmt.Errorf("%w: no encoder %q", ErrNotFound, name)
	}
	return c, nil
}

// FindDecoder returns the named codec if it provides a decoder.
func FindDecoder(name string) (*Codec, error) {
	c, ok := lookup(name)
	if !ok || c.NewDecoder == nil {
		return nil, fmt.Errorf("%w: no decoder %q", ErrNotFound, name)
	}
	return c, nil
}

// NewParser returns a fresh bitstream parser for the named codec.
func NewParser(name string) (Parser, error) {
	c, ok := lookup(name)
	if !ok || c.NewParser == nil {
		return nil, fmt.Errorf("%w: no parser %q", ErrNotFound, name)
	}
	return c.NewParser(), nil
}
