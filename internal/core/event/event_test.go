package event

import (
	"errors"
	"testing"
)

func TestEventAccessors(t *testing.T) {
	t.Parallel()

	e := Event{"event_type": "message", "author_id": float64(42), "content": "hi", "ratio": 0.5, "nil": nil}
	if e.Type() != TypeMessage || !e.Is(TypeMessage) {
		t.Fatalf("Type() = %q", e.Type())
	}
	if got := e.Str(KeyAuthor); got != "42" {
		t.Fatalf("numeric id should render as integer, got %q", got)
	}
	if got := e.Str("ratio"); got != "0.5" {
		t.Fatalf("Str(ratio) = %q", got)
	}
	if e.Str("nil") != "" || e.Str("missing") != "" {
		t.Fatalf("missing and null should be empty")
	}
	if _, ok := e.Get("missing"); ok {
		t.Fatalf("Get(missing) ok")
	}
	if v, ok := e.Get(KeyContent); !ok || v != "hi" {
		t.Fatalf("Get(content) = %v, %v", v, ok)
	}
}

func TestStream_SinglePass(t *testing.T) {
	t.Parallel()

	s := FromSlice([]Event{{"a": 1.0}, {"b": 2.0}})
	n := 0
	for range s.All() {
		n++
	}
	if n != 2 || s.Count() != 2 {
		t.Fatalf("first pass = %d, count = %d", n, s.Count())
	}
	for range s.All() {
		t.Fatalf("second pass must yield nothing")
	}
	if s.Err() != nil {
		t.Fatalf("unexpected err: %v", s.Err())
	}
}

func TestStream_ErrAfterIteration(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewStream(func(yield func(Event) bool) error {
		if !yield(Event{}) {
			return nil
		}
		return boom
	})
	for range s.All() {
	}
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err() = %v", s.Err())
	}
}

func TestStream_EarlyStop(t *testing.T) {
	t.Parallel()

	s := FromSlice([]Event{{}, {}, {}})
	for range s.All() {
		break
	}
	if s.Count() != 1 || s.Err() != nil {
		t.Fatalf("count = %d err = %v", s.Count(), s.Err())
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	s := Empty()
	for range s.All() {
		t.Fatalf("empty stream yielded")
	}
}
