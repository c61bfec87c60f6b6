// Package exchange implements the submit/drain protocol driver shared by the
// encode, decode, and hardware-decode paths.
//
// A codec engine looks asynchronous: submitting one item may produce zero,
// one, or many results, because the engine holds an internal queue whose
// depth depends on codec parameters such as GOP size and B-frame reorder
// depth. The driver presents a synchronous call surface over that queue: one
// Cycle submits a single item and then drains every result the engine has
// ready, handing each to the sink before the next submission. Draining fully
// between submissions is mandatory; interleaving another submit before the
// engine reports not-ready can silently stall or reorder output.
package exchange

import (
	"errors"
	"fmt"

	"github.com/zsiec/transcode/codec"
)

// Session is the submit/drain surface of a codec engine, generic over the
// submitted and produced item types: frames in and packets out for encode,
// packets in and frames out for decode. Send(nil) signals end of stream.
type Session[In, Out any] interface {
	Send(*In) error
	Receive() (Out, error)
}

// Releaser is implemented by drained items; the driver releases each item
// exactly once, after the sink has consumed it.
type Releaser interface {
	Release()
}

// State tracks the session lifecycle as the driver sees it.
type State int

const (
	// StateOpen accepts further submissions.
	StateOpen State = iota
	// StateDrained means the flush drain saw end-of-stream; the session
	// will never produce again and must not receive further submissions.
	StateDrained
	// StateFailed is terminal: the engine reported a protocol error and
	// its internal state is undefined.
	StateFailed
)

// ErrDrained is returned by Cycle after the session has been fully drained.
var ErrDrained = errors.New("exchange: session already drained")

// ErrFailed is returned by Cycle after a previous fatal engine error.
var ErrFailed = errors.New("exchange: session in failed state")

// Driver runs the exchange protocol for one engine session, handing every
// drained item to sink in production order.
type Driver[In any, Out Releaser] struct {
	sess     Session[In, Out]
	sink     func(Out) error
	state    State
	produced int
}

// New creates a driver over an open engine session. The sink receives each
// drained item; the item is released as soon as the sink returns, so sinks
// must not retain references past their call.
func New[In any, Out Releaser](sess Session[In, Out], sink func(Out) error) *Driver[In, Out] {
	return &Driver[In, Out]{sess: sess, sink: sink}
}

// State returns the driver's view of the session lifecycle.
func (d *Driver[In, Out]) State() State { return d.state }

// Produced returns the total number of items drained and sunk so far.
func (d *Driver[In, Out]) Produced() int { return d.produced }

// Cycle submits one item (nil signals end of stream) and drains until the
// engine reports not-ready or end-of-stream. During the flush cycle the only
// acceptable terminal signal is end-of-stream: there is no next submission
// for a not-ready engine to wait for, so not-ready there is a protocol
// violation. Any fatal error leaves the session unusable.
func (d *Driver[In, Out]) Cycle(item *In) error {
	switch d.state {
	case StateDrained:
		return ErrDrained
	case StateFailed:
		return ErrFailed
	}

	if err := d.sess.Send(item); err != nil {
		d.state = StateFailed
		return fmt.Errorf("exchange: submit: %w", err)
	}

	flushing := item == nil
	for {
		out, err := d.sess.Receive()
		switch {
		case errors.Is(err, codec.ErrEOF):
			d.state = StateDrained
			return nil
		case errors.Is(err, codec.ErrAgain):
			if flushing {
				d.state = StateFailed
				return errors.New("exchange: engine reported not-ready during flush")
			}
			return nil
		case err != nil:
			d.state = StateFailed
			return fmt.Errorf("exchange: drain: %w", err)
		}

		sinkErr := d.sink(out)
		out.Release()
		if sinkErr != nil {
			d.state = StateFailed
			return sinkErr
		}
		d.produced++
	}
}

// Flush runs the end-of-stream cycle: it submits the absent item and drains
// everything still buffered inside the engine. After Flush returns nil the
// session is drained and may be closed.
func (d *Driver[In, Out]) Flush() error {
	return d.Cycle(nil)
}
