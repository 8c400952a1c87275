package joystick

import (
	"errors"

	"gojoy/core"
)

// Band is an inclusive range of raw samples.
type Band struct {
	Min int
	Max int
}

// Contains reports whether v lies within the band, bounds included.
func (b Band) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

func (b Band) overlaps(o Band) bool {
	return b.Min <= o.Max && o.Min <= b.Max
}

// Range maps a band of raw samples to one button.
type Range struct {
	Button Button
	Band
}

// Profile identifiers, reported in joystick_config messages.
// ProfileCustom marks a calibration loaded from configuration.
const (
	ProfilePrimary   uint8 = 0
	ProfileAlternate uint8 = 1
	ProfileCustom    uint8 = 2
)

// Profile is the calibration for one wiring: an idle band plus one range per
// button. Different ports sit behind different voltage dividers, so the same
// button produces different readings depending on where the joystick is plugged in.
type Profile struct {
	ID     uint8
	Name   string
	Idle   Band
	Ranges []Range // scanned in order; first match wins
}

// PrimaryProfile returns the calibration for the primary analog pin.
func PrimaryProfile() *Profile {
	return &Profile{
		ID:   ProfilePrimary,
		Name: "primary",
		Idle: Band{480, 510},
		Ranges: []Range{
			{ButtonRed, Band{230, 290}},
			{ButtonGreen, Band{0, 60}},
			{ButtonBlue, Band{116, 166}},
			{ButtonYellow, Band{330, 390}},
			{ButtonBlack, Band{420, 470}},
		},
	}
}

// AlternateProfile returns the calibration for every other pin.
func AlternateProfile() *Profile {
	return &Profile{
		ID:   ProfileAlternate,
		Name: "alternate",
		Idle: Band{1000, core.ADCMax},
		Ranges: []Range{
			{ButtonRed, Band{290, 330}},
			{ButtonGreen, Band{0, 60}},
			{ButtonBlue, Band{120, 180}},
			{ButtonYellow, Band{465, 510}},
			{ButtonBlack, Band{755, 810}},
		},
	}
}

// Classify maps one raw sample to a button.
// The idle band is checked first, then the ranges in declaration order.
// Anything outside every band is idle.
func (p *Profile) Classify(v int) Button {
	if p.Idle.Contains(v) {
		return ButtonNone
	}
	for _, r := range p.Ranges {
		if r.Contains(v) {
			return r.Button
		}
	}
	return ButtonNone
}

var ErrOverlap = errors.New("calibration bands overlap")

// OverlapError describes one pair of intersecting bands.
type OverlapError struct {
	Profile string
	A, B    Button // B is ButtonNone when the idle band is involved
}

func (e *OverlapError) Error() string {
	other := "idle"
	if e.B != ButtonNone {
		other = e.B.String()
	}
	return e.Profile + ": " + e.A.String() + " overlaps " + other
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }

// Validate reports every malformed band and every overlapping pair, joined into
// one error. Classification does not depend on the result: overlaps still
// resolve to idle first, then to the earliest declared range.
func (p *Profile) Validate() error {
	var errs []error
	if p.Idle.Min > p.Idle.Max {
		errs = append(errs, errors.New(p.Name+": idle band is inverted"))
	}
	for i, r := range p.Ranges {
		if !r.Button.Valid() {
			errs = append(errs, ErrInvalidButton)
			continue
		}
		if r.Min > r.Max {
			errs = append(errs, errors.New(p.Name+": "+r.Button.String()+" band is inverted"))
		}
		if r.overlaps(p.Idle) {
			errs = append(errs, &OverlapError{Profile: p.Name, A: r.Button})
		}
		for _, o := range p.Ranges[i+1:] {
			if r.overlaps(o.Band) {
				errs = append(errs, &OverlapError{Profile: p.Name, A: r.Button, B: o.Button})
			}
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Ranges = append([]Range(nil), p.Ranges...)
	return &c
}
