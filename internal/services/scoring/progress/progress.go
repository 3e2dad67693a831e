// Package progress reports scoring progress to a terminal or to the log
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"combatscore/internal/platform/logger"
	"combatscore/internal/services/scoring/domain"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
)

// Mode selects the renderer
type Mode string

// Modes
const (
	Auto Mode = "auto"
	Bar  Mode = "bar"
	Log  Mode = "log"
	Off  Mode = "off"
)

// Modes lists accepted values
func Modes() []string { return []string{string(Auto), string(Bar), string(Log), string(Off)} }

// New returns a reporter for mode; Auto picks Bar when stderr is a terminal
func New(mode Mode) domain.Progress {
	switch mode {
	case Off:
		return nop{}
	case Log:
		return &logReporter{every: 5 * time.Second}
	case Bar:
		return &barReporter{w: os.Stderr, every: 100 * time.Millisecond}
	default:
		if isTerminal(os.Stderr.Fd()) {
			return &barReporter{w: os.Stderr, every: 100 * time.Millisecond}
		}
		return &logReporter{every: 5 * time.Second}
	}
}

var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type nop struct{}

func (nop) Track(context.Context, int, func() int64) func() { return func() {} }

// poll runs tick every interval until stop, then once more
func poll(ctx context.Context, every time.Duration, tick func(final bool)) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				tick(true)
				return
			case <-t.C:
				tick(false)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

type logReporter struct {
	every time.Duration
}

func (r *logReporter) Track(ctx context.Context, total int, done func() int64) func() {
	log := logger.C(ctx)
	start := time.Now()
	last := int64(-1)
	return poll(ctx, r.every, func(final bool) {
		n := done()
		if n == last && !final {
			return
		}
		last = n
		log.Info().
			Int64("done", n).
			Int("total", total).
			Dur("elapsed", time.Since(start)).
			Msg("scoring progress")
	})
}

type barReporter struct {
	w     io.Writer
	every time.Duration
	width int
}

func (r *barReporter) Track(ctx context.Context, total int, done func() int64) func() {
	start := time.Now()
	return poll(ctx, r.every, func(final bool) {
		line := Render(done(), total, r.width, time.Since(start))
		if final {
			_, _ = fmt.Fprintf(r.w, "\r%s\n", line)
			return
		}
		_, _ = fmt.Fprintf(r.w, "\r%s", line)
	})
}

// barColor matches the accent used by the CLI tables
const barColor = "#20B9B4"

func newBar(width int) bprogress.Model {
	if width <= 0 {
		width = 30
	}
	return bprogress.New(
		bprogress.WithWidth(width),
		bprogress.WithoutPercentage(),
		bprogress.WithFillCharacters('=', ' '),
		bprogress.WithSolidFill(barColor),
	)
}

// Render draws one bar line: "[=====     ]  12/40  30% 1.2s"
// The bar itself may carry color escapes on capable terminals
func Render(done int64, total, width int, elapsed time.Duration) string {
	frac := 1.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	frac = min(max(frac, 0), 1)
	w := len(fmt.Sprint(total))
	return fmt.Sprintf("[%s] %*d/%d %3.0f%% %s",
		newBar(width).ViewAs(frac), w, done, total, frac*100, elapsed.Round(100*time.Millisecond))
}
