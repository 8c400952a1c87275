//go:build rp2040

package main

import (
	"gojoy/joystick"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// WS2812 bit timing in PIO cycles. One bit takes t1+t2+t3 cycles.
const (
	ws2812T1 = 2
	ws2812T2 = 5
	ws2812T3 = 3

	ws2812Origin = 0 // Load at offset 0 for correct jump addresses
)

// buildWS2812Program emits one bit per loop, driving the data line via
// side-set: high for t1, then high or low for t2 depending on the bit,
// then low for t3.
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 1}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestX, 1).Side(0).Delay(ws2812T3 - 1).Encode(), // 0: out x, 1       side 0 [2]
		asm.Jmp(3, rp2pio.JmpXZero).Side(1).Delay(ws2812T1 - 1).Encode(), // 1: jmp !x, 3      side 1 [1]
		asm.Jmp(0, rp2pio.JmpAlways).Side(1).Delay(ws2812T2 - 1).Encode(), // 2: jmp 0          side 1 [4]
		asm.Nop().Side(0).Delay(ws2812T2 - 1).Encode(),                    // 3: nop            side 0 [4]
		// .wrap
	}
}

// StatusLED shows the colour of the last pressed button on a single
// WS2812 pixel.
type StatusLED struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin machine.Pin
}

// NewStatusLED claims a state machine on PIO1 and starts the bit
// clock at 800kHz.
func NewStatusLED(pin machine.Pin) (*StatusLED, error) {
	l := &StatusLED{
		pio: rp2pio.PIO1,
		pin: pin,
	}
	l.sm = l.pio.StateMachine(0)
	l.sm.TryClaim()

	program := buildWS2812Program()
	offset, err := l.pio.AddProgram(program, ws2812Origin)
	if err != nil {
		return nil, err
	}

	pin.Configure(machine.PinConfig{Mode: l.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSidesetParams(1, false, false)
	cfg.SetSidesetPins(pin)
	// Shift left, autopull after 24 bits (GRB)
	cfg.SetOutShift(false, true, 24)
	cfg.SetFIFOJoin(rp2pio.FifoJoinTx)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	// 125MHz / (800kHz * 10 cycles) = 15.625
	cfg.SetClkDivIntFrac(15, 160)

	l.sm.Init(offset, cfg)
	l.sm.SetPindirsConsecutive(pin, 1, true)
	l.sm.SetEnabled(true)

	l.Show(joystick.ButtonNone)
	return l, nil
}

// Show sets the pixel for button. ButtonNone turns it off.
func (l *StatusLED) Show(button joystick.Button) {
	r, g, b := buttonColour(button)
	for l.sm.IsTxFIFOFull() {
	}
	l.sm.TxPut(uint32(g)<<24 | uint32(r)<<16 | uint32(b)<<8)
}

func buttonColour(button joystick.Button) (r, g, b uint8) {
	switch button {
	case joystick.ButtonRed:
		return 64, 0, 0
	case joystick.ButtonGreen:
		return 0, 64, 0
	case joystick.ButtonBlue:
		return 0, 0, 64
	case joystick.ButtonYellow:
		return 64, 40, 0
	case joystick.ButtonBlack:
		return 12, 12, 12
	}
	return 0, 0, 0
}
