// Package event defines the open event document decoded from combat logs
// and the lazy single pass stream heuristics consume
package event

import (
	"fmt"
	"iter"
	"sync"
)

// Well known keys carried by combat events
const (
	KeyType    = "event_type"
	KeyContent = "content"
	KeyAuthor  = "author_id"
)

// Well known event types
const (
	TypeMessage = "message"
	TypeCommand = "command"
)

// Event is one decoded JSON object from a combat log
// No schema is enforced; treat it as read only after decode
type Event map[string]any

// Get returns the raw value under key
func (e Event) Get(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

// Str returns the value under key as a string
// Non string scalars are rendered with fmt; missing or null values give ""
func (e Event) Str(key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// ids often arrive as JSON numbers
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprint(t)
	}
}

// Type returns the event_type field
func (e Event) Type() string { return e.Str(KeyType) }

// Is reports whether the event has the given type
func (e Event) Is(typ string) bool { return e.Type() == typ }

// Producer pushes events into yield until exhausted, yield returns false,
// or a fatal error occurs
type Producer func(yield func(Event) bool) error

// Stream is a lazy single pass sequence of events
// A fatal error stops iteration and is reported by Err once the consumer returns
type Stream struct {
	produce Producer

	mu    sync.Mutex
	used  bool
	err   error
	count int
}

// NewStream wraps a producer into a Stream
func NewStream(p Producer) *Stream { return &Stream{produce: p} }

// Empty returns a stream with no events
func Empty() *Stream {
	return NewStream(func(func(Event) bool) error { return nil })
}

// FromSlice returns a stream over a fixed slice of events
func FromSlice(evs []Event) *Stream {
	return NewStream(func(yield func(Event) bool) error {
		for _, e := range evs {
			if !yield(e) {
				return nil
			}
		}
		return nil
	})
}

// All returns the sequence; only the first call yields events
func (s *Stream) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		s.mu.Lock()
		if s.used {
			s.mu.Unlock()
			return
		}
		s.used = true
		s.mu.Unlock()

		n := 0
		err := s.produce(func(e Event) bool {
			n++
			return yield(e)
		})

		s.mu.Lock()
		s.count = n
		s.err = err
		s.mu.Unlock()
	}
}

// Err returns the fatal error that stopped iteration, if any
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Count returns how many events were yielded
func (s *Stream) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
