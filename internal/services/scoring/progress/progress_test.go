package progress

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"combatscore/internal/platform/testkit"

	"github.com/charmbracelet/x/ansi"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name        string
		done        int64
		total       int
		wantPrefix  string
		wantPercent string
	}{
		{"empty", 0, 10, "[          ]", "  0%"},
		{"half", 5, 10, "[=====     ]", " 50%"},
		{"full", 10, 10, "[==========]", "100%"},
		{"no units", 0, 0, "[==========]", "100%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ansi.Strip(Render(tc.done, tc.total, 10, time.Second))
			if !strings.HasPrefix(got, tc.wantPrefix) {
				t.Fatalf("got %q want prefix %q", got, tc.wantPrefix)
			}
			testkit.MustContain(t, got, tc.wantPercent)
		})
	}
}

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestBarFinalLine(t *testing.T) {
	buf := &syncBuf{}
	r := &barReporter{w: buf, every: time.Millisecond, width: 4}
	var n atomic.Int64
	stop := r.Track(context.Background(), 2, n.Load)
	n.Store(2)
	stop()
	stop() // idempotent
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("final line must end with newline: %q", out)
	}
	testkit.MustContain(t, ansi.Strip(out), "2/2")
}

func TestRenderClampsOvershoot(t *testing.T) {
	got := ansi.Strip(Render(12, 10, 10, 0))
	if !strings.HasPrefix(got, "[==========]") {
		t.Fatalf("got %q", got)
	}
	testkit.MustContain(t, got, "100%")
}

func TestNewPicksRenderer(t *testing.T) {
	if _, ok := New(Off).(nop); !ok {
		t.Fatal("off should be nop")
	}
	if _, ok := New(Log).(*logReporter); !ok {
		t.Fatal("log should be logReporter")
	}
	testkit.Swap(t, &isTerminal, func(uintptr) bool { return false })
	if _, ok := New(Auto).(*logReporter); !ok {
		t.Fatal("auto without tty should log")
	}
	testkit.Swap(t, &isTerminal, func(uintptr) bool { return true })
	if _, ok := New(Auto).(*barReporter); !ok {
		t.Fatal("auto with tty should draw a bar")
	}
}

func TestNopStop(t *testing.T) {
	testkit.MustNotPanic(t, func() { New(Off).Track(context.Background(), 1, func() int64 { return 0 })() })
}
