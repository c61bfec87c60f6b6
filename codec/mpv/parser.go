package mpv

// parser segments an mpv byte stream into access units by scanning for start
// codes. Bytes after the most recent boundary are carried across calls, so a
// unit boundary never has to align with an I/O read boundary.
type parser struct {
	carry []byte
}

// Parse consumes input up to the next unit boundary. When a boundary is
// found, the completed unit (carry plus consumed input) is returned and the
// remainder stays carried; otherwise all input is absorbed into the carry
// and a nil unit signals that more input is needed.
func (p *parser) Parse(data []byte) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, nil
	}
	idx := p.findBoundary(data)
	if idx < 0 {
		p.carry = append(p.carry, data...)
		return len(data), nil, nil
	}

	take := idx - len(p.carry)
	if take < 0 {
		// Boundary straddles the carry tail; the unit completes without
		// consuming new input this step.
		take = 0
	}
	owned := make([]byte, 0, len(p.carry)+take)
	owned = append(owned, p.carry...)
	owned = append(owned, data[:take]...)

	unit := owned[:idx:idx]
	p.carry = append([]byte(nil), owned[idx:]...)
	return take, unit, nil
}

// Flush returns the final carried unit once input is exhausted. The last
// unit in a stream has no following start code to terminate it.
func (p *parser) Flush() []byte {
	unit := p.carry
	p.carry = nil
	if len(unit) == 0 {
		return nil
	}
	return unit
}

// findBoundary returns the logical offset (carry then data) of the next
// start code after position 0, or -1. The carry was scanned on previous
// calls, so only its last two bytes can begin an unseen start code.
func (p *parser) findBoundary(data []byte) int {
	from := len(p.carry) - 2
	if from < 1 {
		from = 1
	}
	n := len(p.carry) + len(data)
	at := func(i int) byte {
		if i < len(p.carry) {
			return p.carry[i]
		}
		return data[i-len(p.carry)]
	}
	for i := from; i+3 <= n; i++ {
		if at(i) == 0 && at(i+1) == 0 && at(i+2) == 1 {
			return i
		}
	}
	return -1
}
