package joystick

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gojoy/core"
)

var errReadFailed = errors.New("adc read failed")

// testContext stands in for testing.T.Context (Go 1.24+): the context is
// canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// readFail in a script makes ReadRaw return errReadFailed.
const readFail = -1

// scriptedADC returns a fixed sequence of samples, then idles.
type scriptedADC struct {
	mu         sync.Mutex
	samples    []int
	configured []core.ADCChannelID
	reads      []core.ADCChannelID
	configErr  error
}

func newScriptedADC(samples ...int) *scriptedADC {
	return &scriptedADC{samples: samples}
}

func (a *scriptedADC) ConfigureChannel(ch core.ADCChannelID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configured = append(a.configured, ch)
	return a.configErr
}

func (a *scriptedADC) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reads = append(a.reads, ch)
	if len(a.samples) == 0 {
		return 495, nil
	}
	v := a.samples[0]
	a.samples = a.samples[1:]
	if v == readFail {
		return 0, errReadFailed
	}
	return core.ADCValue(v), nil
}

// levelADC holds a level set by the test and detects overlapping readers.
type levelADC struct {
	level   atomic.Int32
	reads   atomic.Int32
	active  atomic.Int32
	overlap atomic.Bool
}

func newLevelADC(level int) *levelADC {
	a := &levelADC{}
	a.level.Store(int32(level))
	return a
}

func (a *levelADC) ConfigureChannel(ch core.ADCChannelID) error { return nil }

func (a *levelADC) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	if a.active.Add(1) > 1 {
		a.overlap.Store(true)
	}
	time.Sleep(200 * time.Microsecond)
	a.active.Add(-1)
	a.reads.Add(1)
	return core.ADCValue(a.level.Load()), nil
}

func (a *levelADC) set(t *testing.T, level int) {
	t.Helper()
	a.level.Store(int32(level))
	a.waitReads(t, 3)
}

// waitReads blocks until n more samples were taken.
func (a *levelADC) waitReads(t *testing.T, n int32) {
	t.Helper()
	target := a.reads.Load() + n
	deadline := time.Now().Add(2 * time.Second)
	for a.reads.Load() < target {
		if time.Now().After(deadline) {
			t.Fatalf("sampler took %d samples, waited for %d", a.reads.Load(), target)
		}
		time.Sleep(time.Millisecond)
	}
}

// recordPresses subscribes to every joystick event on bus.
func recordPresses(bus *core.EventBus) *[]Button {
	var got []Button
	bus.OnEvent(EventID, core.EventValueAny, func(evt core.Event) {
		got = append(got, Button(evt.Value))
	})
	return &got
}

func fastOptions() Options {
	return Options{SampleInterval: time.Millisecond}
}
