package scanner

import (
	"io"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Event is emitted when a pattern completes.
type Event struct {
	Pattern  string
	Captures []string
	// Offset is the stream offset of the byte that completed the match.
	Offset int64
}

// Handler receives completion events for one pattern.
type Handler func(Event)

// Binding pairs a pattern with the handler for its completions. A nil
// handler is allowed; completions are then only observed.
type Binding struct {
	Pattern *Pattern
	Handler Handler
}

// Observer is notified of scan progress. It must not retain the event.
type Observer interface {
	ObserveBytes(n int64)
	ObserveCompletion(ev Event)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for debug tracing of completions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

type entry struct {
	token   *Token
	handler Handler
}

// Scheduler feeds every byte of a stream to a fixed set of independent
// tokens and dispatches their completions. Tokens never see each other's
// state. A Scheduler owns its tokens exclusively and is not safe for
// concurrent use; run parallel scans on separate schedulers.
type Scheduler struct {
	entries  []entry
	logger   *zap.Logger
	observer Observer
}

// NewScheduler builds a scheduler with one fresh token per binding.
// Completions are dispatched in binding order for a given byte.
func NewScheduler(bindings []Binding, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		entries: make([]entry, 0, len(bindings)),
		logger:  zap.NewNop(),
	}
	for i, b := range bindings {
		if b.Pattern == nil {
			return nil, xerrors.Errorf("binding %d has no pattern", i)
		}
		s.entries = append(s.entries, entry{token: b.Pattern.NewToken(), handler: b.Handler})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run scans r to its end. Tokens start from their reset state; any token
// left mid-match when the stream ends is discarded. The only error returned
// is a read failure of r.
func (s *Scheduler) Run(r io.ByteReader) error {
	for _, e := range s.entries {
		e.token.Reset()
	}

	var offset, completions int64
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.flush(offset)
			return xerrors.Errorf("unable to read stream at offset %d: %w", offset, err)
		}
		completions += s.step(c, offset)
		offset++
	}
	s.flush(offset)

	s.logger.Debug("stream exhausted",
		zap.Int64("bytes", offset),
		zap.Int64("completions", completions))
	return nil
}

func (s *Scheduler) step(c byte, offset int64) int64 {
	var n int64
	for _, e := range s.entries {
		if e.token.Step(c) != Completed {
			continue
		}
		n++
		ev := Event{
			Pattern:  e.token.pattern.name,
			Captures: e.token.LastMatch(),
			Offset:   offset,
		}
		s.logger.Debug("pattern completed",
			zap.String("pattern", ev.Pattern),
			zap.Strings("captures", ev.Captures),
			zap.Int64("offset", ev.Offset))
		if s.observer != nil {
			s.observer.ObserveCompletion(ev)
		}
		if e.handler != nil {
			e.handler(ev)
		}
	}
	return n
}

func (s *Scheduler) flush(offset int64) {
	if s.observer != nil {
		s.observer.ObserveBytes(offset)
	}
}
