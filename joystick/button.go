package joystick

import "errors"

// Button is the discrete state of the joystick.
// The numeric code is only used at the event-bus and wire boundaries.
type Button uint8

const (
	ButtonNone Button = iota // no button pressed; never delivered to handlers
	ButtonRed
	ButtonGreen
	ButtonBlue
	ButtonYellow
	ButtonBlack

	buttonCount
)

var ErrInvalidButton = errors.New("invalid joystick button")

var buttonNames = [buttonCount]string{"none", "red", "green", "blue", "yellow", "black"}

func (b Button) String() string {
	if b >= buttonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// Valid reports whether b is one of the five pressable buttons.
func (b Button) Valid() bool {
	return b > ButtonNone && b < buttonCount
}

// code encodes b for the event bus.
func (b Button) code() uint16 {
	return uint16(b)
}

// ButtonFromCode decodes an event-bus or wire value. Unknown codes map to ButtonNone.
func ButtonFromCode(v uint32) Button {
	if v >= uint32(buttonCount) {
		return ButtonNone
	}
	return Button(v)
}

// ParseButton returns the button with the given name.
func ParseButton(name string) (Button, error) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), nil
		}
	}
	return ButtonNone, ErrInvalidButton
}

// Buttons lists the pressable buttons in declaration order.
func Buttons() []Button {
	return []Button{ButtonRed, ButtonGreen, ButtonBlue, ButtonYellow, ButtonBlack}
}
