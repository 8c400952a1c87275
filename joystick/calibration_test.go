package joystick

import (
	"errors"
	"testing"
)

func TestClassifyPrimary(t *testing.T) {
	p := PrimaryProfile()

	testCases := []struct {
		value    int
		expected Button
	}{
		{0, ButtonGreen},
		{60, ButtonGreen},
		{61, ButtonNone},
		{116, ButtonBlue},
		{166, ButtonBlue},
		{230, ButtonRed},
		{250, ButtonRed},
		{290, ButtonRed},
		{330, ButtonYellow},
		{390, ButtonYellow},
		{420, ButtonBlack},
		{470, ButtonBlack},
		{480, ButtonNone},
		{495, ButtonNone},
		{510, ButtonNone},
		{700, ButtonNone},
		{1023, ButtonNone},
		{-5, ButtonNone},
		{5000, ButtonNone},
	}

	for _, tc := range testCases {
		if got := p.Classify(tc.value); got != tc.expected {
			t.Errorf("Classify(%d): expected %s, got %s", tc.value, tc.expected, got)
		}
	}
}

func TestClassifyAlternate(t *testing.T) {
	p := AlternateProfile()

	testCases := []struct {
		value    int
		expected Button
	}{
		{30, ButtonGreen},
		{150, ButtonBlue},
		{250, ButtonNone},
		{300, ButtonRed},
		{490, ButtonYellow},
		{780, ButtonBlack},
		{900, ButtonNone},
		{1000, ButtonNone},
		{1023, ButtonNone},
	}

	for _, tc := range testCases {
		if got := p.Classify(tc.value); got != tc.expected {
			t.Errorf("Classify(%d): expected %s, got %s", tc.value, tc.expected, got)
		}
	}
}

func TestClassifyEveryRangeInterior(t *testing.T) {
	for _, p := range []*Profile{PrimaryProfile(), AlternateProfile()} {
		for _, r := range p.Ranges {
			for v := r.Min; v <= r.Max; v++ {
				if got := p.Classify(v); got != r.Button {
					t.Fatalf("%s: Classify(%d) = %s, expected %s", p.Name, v, got, r.Button)
				}
			}
		}
		for v := p.Idle.Min; v <= p.Idle.Max; v++ {
			if got := p.Classify(v); got != ButtonNone {
				t.Fatalf("%s: idle value %d classified as %s", p.Name, v, got)
			}
		}
	}
}

func TestIdleTakesPriority(t *testing.T) {
	p := PrimaryProfile()
	p.Ranges[0].Band = Band{470, 500} // red now reaches into the idle band

	if got := p.Classify(490); got != ButtonNone {
		t.Errorf("Value inside idle band classified as %s", got)
	}
	if got := p.Classify(475); got != ButtonRed {
		t.Errorf("Value outside idle band: expected red, got %s", got)
	}

	err := p.Validate()
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("Expected ErrOverlap, got %v", err)
	}
	t.Logf("Validate: %v", err)
}

func TestFirstRangeWins(t *testing.T) {
	p := &Profile{
		Name: "overlapping",
		Idle: Band{1000, 1023},
		Ranges: []Range{
			{ButtonRed, Band{100, 200}},
			{ButtonGreen, Band{150, 250}},
		},
	}

	if got := p.Classify(175); got != ButtonRed {
		t.Errorf("Expected the first declared range to win, got %s", got)
	}
	if got := p.Classify(225); got != ButtonGreen {
		t.Errorf("Expected green, got %s", got)
	}

	var overlap *OverlapError
	if !errors.As(p.Validate(), &overlap) {
		t.Fatal("Expected an OverlapError")
	}
	if overlap.A != ButtonRed || overlap.B != ButtonGreen {
		t.Errorf("Unexpected overlap pair: %s/%s", overlap.A, overlap.B)
	}
}

func TestBuiltInProfilesValid(t *testing.T) {
	for _, p := range []*Profile{PrimaryProfile(), AlternateProfile()} {
		if err := p.Validate(); err != nil {
			t.Errorf("%s profile: %v", p.Name, err)
		}
		if len(p.Ranges) != len(Buttons()) {
			t.Errorf("%s profile: expected %d ranges, got %d", p.Name, len(Buttons()), len(p.Ranges))
		}
	}
}

func TestValidateInvertedBand(t *testing.T) {
	p := AlternateProfile()
	p.Ranges[4].Band = Band{810, 755}
	if err := p.Validate(); err == nil {
		t.Error("Expected an error for an inverted band")
	}
}

func TestProfileClone(t *testing.T) {
	p := PrimaryProfile()
	c := p.Clone()
	c.Ranges[0].Min = 0

	if p.Ranges[0].Min != 230 {
		t.Error("Clone shares its ranges with the original")
	}
}
