// Package poller runs the read-validate-report cycle against a sensor source
// on a fixed cadence.
package poller

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gavv/monotime"

	"github.com/sensormon/dht11_monitor/sensor"
)

// Interval is the quiescence period after every cycle, dictated by the
// DHT11's minimum spacing between reads.
const Interval = 2000 * time.Millisecond

const (
	readyBanner   = "DHT11 OK"
	readErrorLine = "Humidity or temperature read error"
)

// Source produces one reading per call. *sensor.Device implements it.
type Source interface {
	Read() (sensor.Reading, error)
}

// Hooks observe cycle outcomes. Nil hooks are skipped.
type Hooks struct {
	OnReading func(r sensor.Reading, took time.Duration)
	OnFailure func(err error)
}

// Poller owns the poll cycle: one reading per Interval, a report line per
// cycle, failures reported and skipped over rather than retried.
type Poller struct {
	src   Source
	out   io.Writer
	hooks Hooks

	// wait is swapped out by tests; returns false once ctx is done.
	wait func(ctx context.Context, d time.Duration) bool
}

// New returns a poller reporting to out.
func New(src Source, out io.Writer, hooks Hooks) *Poller {
	return &Poller{src: src, out: out, hooks: hooks, wait: wait}
}

// Run emits the readiness banner and then polls until ctx is cancelled.
// A failed read is not retried within its cycle; the loop simply waits out
// the interval and moves on. Run only returns on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	fmt.Fprintln(p.out, readyBanner)
	for {
		start := monotime.Now()
		r, err := p.src.Read()
		took := monotime.Now() - start
		if err != nil {
			fmt.Fprintln(p.out, readErrorLine)
			if p.hooks.OnFailure != nil {
				p.hooks.OnFailure(err)
			}
		} else {
			fmt.Fprintln(p.out, r.String())
			if p.hooks.OnReading != nil {
				p.hooks.OnReading(r, took)
			}
		}
		if !p.wait(ctx, Interval) {
			return nil
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
