package main

import (
	"errors"
	"testing"

	"gojoy/core"
	"gojoy/joystick"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected int
		err      error
	}{
		{"0", 0, nil},
		{"250", 250, nil},
		{"1023", 1023, nil},
		{"1024", 0, errLevelRange},
		{"65786", 0, errLevelRange},
		{"-1", 0, errLevelRange},
		{"99999999999999999999", 0, errLevelRange},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := parseLevel(tc.in)
			if !errors.Is(err, tc.err) || v != tc.expected {
				t.Errorf("parseLevel(%q) = %d, %v; expected %d, %v", tc.in, v, err, tc.expected, tc.err)
			}
		})
	}
	if _, err := parseLevel("red"); err == nil || errors.Is(err, errLevelRange) {
		t.Errorf("Expected a syntax error for a word, got %v", err)
	}
}

func TestSimCommandOutOfRangeKeepsLevel(t *testing.T) {
	adc := &stdinADC{}
	adc.level.Store(495)
	joy := joystick.New(adc, core.NewEventBus(), joystick.Options{})

	// 65786 narrowed to 16 bits is 250, a red press
	handleSimCommand("65786", adc, joy)
	if v := adc.level.Load(); v != 495 {
		t.Errorf("Out-of-range input changed the level to %d", v)
	}
	if b := joy.Tick(); b != joystick.ButtonNone {
		t.Errorf("Expected idle after rejected input, sampler saw %s", b)
	}

	handleSimCommand("250", adc, joy)
	if b := joy.Tick(); b != joystick.ButtonRed {
		t.Errorf("Expected red at 250, sampler saw %s", b)
	}

	handleSimCommand("unplug", adc, joy)
	if _, err := adc.ReadRaw(0); err == nil {
		t.Error("Expected reads to fail after unplug")
	}
}
