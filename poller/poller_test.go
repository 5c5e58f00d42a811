package poller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sensormon/dht11_monitor/sensor"
)

type step struct {
	r   sensor.Reading
	err error
}

// scriptSource replays a fixed sequence of read outcomes.
type scriptSource struct {
	steps []step
	next  int
}

func (s *scriptSource) Read() (sensor.Reading, error) {
	st := s.steps[s.next]
	s.next++
	return st.r, st.err
}

// run executes the poller over the scripted reads and returns the emitted
// lines and the recorded wait durations. The loop is stopped by the wait
// stub once the script is exhausted.
func run(t *testing.T, steps []step) ([]string, []time.Duration) {
	t.Helper()
	src := &scriptSource{steps: steps}
	var out bytes.Buffer
	var waits []time.Duration

	p := New(src, &out, Hooks{})
	p.wait = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		return src.next < len(src.steps)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	return lines, waits
}

func TestBannerEmittedOnceBeforeCycles(t *testing.T) {
	lines, _ := run(t, []step{
		{r: sensor.Reading{Humidity: 45.0, Temperature: 23.5}},
	})
	if lines[0] != "DHT11 OK" {
		t.Errorf("first line = %q, want banner", lines[0])
	}
	for _, l := range lines[1:] {
		if l == "DHT11 OK" {
			t.Error("banner emitted more than once")
		}
	}
}

func TestSuccessCycle(t *testing.T) {
	lines, waits := run(t, []step{
		{r: sensor.Reading{Humidity: 45.0, Temperature: 23.5}},
	})
	want := "Humidity: 45.00 %\tTemperature: 23.50 *C"
	if lines[1] != want {
		t.Errorf("report line = %q, want %q", lines[1], want)
	}
	if len(waits) != 1 || waits[0] != 2000*time.Millisecond {
		t.Errorf("waits = %v, want one 2000ms wait", waits)
	}
}

func TestFailedCycleEmitsErrorLineOnly(t *testing.T) {
	lines, waits := run(t, []step{
		{err: sensor.ErrReadFailure},
	})
	if len(lines) != 2 {
		t.Fatalf("emitted %d lines, want banner plus error line: %q", len(lines), lines)
	}
	if lines[1] != "Humidity or temperature read error" {
		t.Errorf("report line = %q, want error line", lines[1])
	}
	// The quiescence interval applies to failed cycles too.
	if len(waits) != 1 || waits[0] != Interval {
		t.Errorf("waits = %v, want one interval wait", waits)
	}
}

func TestAlternatingCycles(t *testing.T) {
	var steps []step
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			steps = append(steps, step{r: sensor.Reading{Humidity: 45.0, Temperature: 23.5}})
		} else {
			steps = append(steps, step{err: sensor.ErrReadFailure})
		}
	}
	lines, waits := run(t, steps)

	if len(lines) != 11 {
		t.Fatalf("emitted %d lines, want banner plus 10 cycles", len(lines))
	}
	for i, l := range lines[1:] {
		if i%2 == 0 {
			if !strings.HasPrefix(l, "Humidity: ") {
				t.Errorf("cycle %d = %q, want measurement line", i, l)
			}
		} else if l != "Humidity or temperature read error" {
			t.Errorf("cycle %d = %q, want error line", i, l)
		}
	}
	if len(waits) != 10 {
		t.Errorf("recorded %d waits, want one per cycle", len(waits))
	}
	for _, d := range waits {
		if d != Interval {
			t.Errorf("wait = %v, want %v", d, Interval)
		}
	}
}

func TestHooks(t *testing.T) {
	src := &scriptSource{steps: []step{
		{r: sensor.Reading{Humidity: 45.0, Temperature: 23.5}},
		{err: errors.New("bad data - check sum fail")},
	}}
	var out bytes.Buffer
	var readings int
	var failures int

	p := New(src, &out, Hooks{
		OnReading: func(r sensor.Reading, took time.Duration) {
			readings++
			if r.Humidity != 45.0 {
				t.Errorf("hook reading = %+v", r)
			}
			if took < 0 {
				t.Errorf("hook took = %v", took)
			}
		},
		OnFailure: func(err error) { failures++ },
	})
	p.wait = func(ctx context.Context, d time.Duration) bool {
		return src.next < len(src.steps)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if readings != 1 || failures != 1 {
		t.Errorf("readings = %d, failures = %d, want 1 and 1", readings, failures)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &scriptSource{steps: []step{
		{r: sensor.Reading{Humidity: 45.0, Temperature: 23.5}},
	}}
	var out bytes.Buffer
	p := New(src, &out, Hooks{})

	// The real wait honors cancellation; the cycle before it still runs.
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancelled context")
	}
}
