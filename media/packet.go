package media

// Packet is one compressed access unit: an owned byte buffer holding exactly
// one coded picture, plus its presentation timestamp (NoPTS when the
// bitstream layer did not provide one).
type Packet struct {
	Data []byte
	PTS  int64
}

// Release drops the packet's buffer. Engines may key internal buffer pools
// on outstanding packet count, so every packet must be released exactly once
// after it has been written out or submitted.
func (p *Packet) Release() {
	p.Data = nil
}
