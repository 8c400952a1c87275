package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"gojoy/core"
	"gojoy/joystick"
	"gojoy/protocol"
)

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

func deviceStream(t *testing.T, buttons ...joystick.Button) []byte {
	t.Helper()
	var wire bytes.Buffer
	bridge := joystick.NewBridge(1, &wire)
	if err := bridge.SendConfig(27, joystick.ProfileAlternate); err != nil {
		t.Fatalf("SendConfig failed: %v", err)
	}
	for _, b := range buttons {
		if err := bridge.SendButton(b); err != nil {
			t.Fatalf("SendButton failed: %v", err)
		}
	}
	return wire.Bytes()
}

func TestMonitorDispatchesPresses(t *testing.T) {
	m := New(nopCloser{&bytes.Buffer{}})

	var reds, blues int
	var all []joystick.Button
	m.OnButtonPressed(joystick.ButtonRed, func() { reds++ })
	m.OnButtonPressed(joystick.ButtonBlue, func() { blues++ })
	m.OnAnyButton(func(b joystick.Button) { all = append(all, b) })

	var gotPin core.ADCChannelID
	var gotProfile uint8
	m.OnConfig(func(oid uint8, pin core.ADCChannelID, profile uint8) {
		gotPin, gotProfile = pin, profile
	})

	stream := deviceStream(t, joystick.ButtonRed, joystick.ButtonYellow, joystick.ButtonRed)
	// Deliver in small chunks, the way a serial port does
	for len(stream) > 0 {
		n := min(3, len(stream))
		m.Process(stream[:n])
		stream = stream[n:]
	}

	if reds != 2 || blues != 0 {
		t.Errorf("Expected 2 red and 0 blue presses, got %d and %d", reds, blues)
	}
	if len(all) != 3 || all[1] != joystick.ButtonYellow {
		t.Errorf("Unexpected presses: %v", all)
	}
	if gotPin != 27 || gotProfile != joystick.ProfileAlternate {
		t.Errorf("Unexpected config: pin=%d profile=%d", gotPin, gotProfile)
	}
	if m.Presses != 3 || m.DecodeErrors != 0 {
		t.Errorf("Unexpected counters: presses=%d errors=%d", m.Presses, m.DecodeErrors)
	}
}

func TestMonitorSkipsGarbage(t *testing.T) {
	m := New(nopCloser{&bytes.Buffer{}})

	var all []joystick.Button
	m.OnAnyButton(func(b joystick.Button) { all = append(all, b) })

	m.Process([]byte{0x01, 0x02, 0x7E})
	m.Process(deviceStream(t, joystick.ButtonGreen))

	if len(all) != 1 || all[0] != joystick.ButtonGreen {
		t.Errorf("Expected one green press, got %v", all)
	}
	if bad, _ := m.Stats(); bad == 0 {
		t.Error("Garbage was not counted as a bad frame")
	}
}

func TestMonitorUnknownMessage(t *testing.T) {
	m := New(nopCloser{&bytes.Buffer{}})

	var wire bytes.Buffer
	w := protocol.NewFrameWriter(&wire)
	w.WriteMessage(42, nil)
	m.Process(wire.Bytes())

	if m.DecodeErrors != 1 {
		t.Errorf("Expected 1 decode error, got %d", m.DecodeErrors)
	}
}

func TestMonitorRejectsNone(t *testing.T) {
	m := New(nopCloser{&bytes.Buffer{}})
	if err := m.OnButtonPressed(joystick.ButtonNone, func() {}); !errors.Is(err, joystick.ErrInvalidButton) {
		t.Errorf("Expected ErrInvalidButton, got %v", err)
	}
}

// timeoutReader yields its data once, then behaves like a port whose reads time out.
type timeoutReader struct {
	data []byte
}

func (r *timeoutReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		time.Sleep(time.Millisecond)
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func (r *timeoutReader) Close() error { return nil }

func TestMonitorRun(t *testing.T) {
	m := New(&timeoutReader{data: deviceStream(t, joystick.ButtonBlack)})

	pressed := make(chan joystick.Button, 1)
	m.OnAnyButton(func(b joystick.Button) { pressed <- b })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case b := <-pressed:
		if b != joystick.ButtonBlack {
			t.Errorf("Expected black, got %s", b)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not deliver the press")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestMonitorOnAnyButtonFiltersInvalid(t *testing.T) {
	m := New(nopCloser{&bytes.Buffer{}})

	var got []joystick.Button
	m.OnAnyButton(func(b joystick.Button) { got = append(got, b) })

	m.bus.RaiseEvent(m.eventID, uint16(joystick.ButtonNone))
	m.bus.RaiseEvent(m.eventID, 42)
	m.bus.RaiseEvent(m.eventID, 257)
	m.bus.RaiseEvent(m.eventID, uint16(joystick.ButtonYellow))
	m.bus.Dispatch()

	if len(got) != 1 || got[0] != joystick.ButtonYellow {
		t.Errorf("Expected only yellow, got %v", got)
	}
}
