package joystick

import (
	"io"
	"sync/atomic"

	"gojoy/core"
	"gojoy/protocol"
)

// Wire messages, registered in this order on both ends of the link.
const (
	MsgJoystickConfig = "joystick_config"
	MsgJoystickButton = "joystick_button"
)

// RegisterMessages adds the joystick message set to r.
func RegisterMessages(r *core.MessageRegistry) {
	r.Register(MsgJoystickConfig, "oid=%c pin=%u profile=%c", nil)
	r.Register(MsgJoystickButton, "oid=%c button=%c", nil)
}

// Bridge forwards joystick presses over a serial link as framed messages.
type Bridge struct {
	oid      uint8
	writer   *protocol.FrameWriter
	configID uint16
	buttonID uint16

	errors atomic.Uint32
}

// NewBridge creates a bridge writing frames to w on behalf of object oid.
func NewBridge(oid uint8, w io.Writer) *Bridge {
	reg := core.NewMessageRegistry()
	RegisterMessages(reg)
	cfg, _ := reg.GetByName(MsgJoystickConfig)
	btn, _ := reg.GetByName(MsgJoystickButton)

	return &Bridge{
		oid:      oid,
		writer:   protocol.NewFrameWriter(w),
		configID: cfg.ID,
		buttonID: btn.ID,
	}
}

// Attach forwards each of j's presses and announces j's configuration.
// Forwarding stays in place even when the announcement fails.
func (b *Bridge) Attach(j *Joystick) error {
	j.OnAnyButton(func(button Button) {
		if err := b.SendButton(button); err != nil {
			b.errors.Add(1)
			core.DebugAsync("[JOY] bridge write failed: " + err.Error())
		}
	})
	return b.SendConfig(j.Pin(), j.Profile().ID)
}

// Errors returns how many forwarded presses failed to write.
func (b *Bridge) Errors() uint32 {
	return b.errors.Load()
}

// SendConfig writes a joystick_config message.
func (b *Bridge) SendConfig(pin core.ADCChannelID, profile uint8) error {
	return b.writer.WriteMessage(b.configID, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(b.oid))
		protocol.EncodeVLQUint(output, uint32(pin))
		protocol.EncodeVLQUint(output, uint32(profile))
	})
}

// SendButton writes a joystick_button message.
func (b *Bridge) SendButton(button Button) error {
	return b.writer.WriteMessage(b.buttonID, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(b.oid))
		protocol.EncodeVLQUint(output, uint32(button.code()))
	})
}

// DecodeButtonMessage decodes the arguments of a joystick_button message.
func DecodeButtonMessage(data *[]byte) (oid uint8, button Button, err error) {
	o, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, ButtonNone, err
	}
	v, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, ButtonNone, err
	}
	button = ButtonFromCode(v)
	if !button.Valid() {
		return uint8(o), ButtonNone, ErrInvalidButton
	}
	return uint8(o), button, nil
}

// DecodeConfigMessage decodes the arguments of a joystick_config message.
func DecodeConfigMessage(data *[]byte) (oid uint8, pin core.ADCChannelID, profile uint8, err error) {
	o, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, 0, 0, err
	}
	p, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, 0, 0, err
	}
	pr, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, 0, 0, err
	}
	return uint8(o), core.ADCChannelID(p), uint8(pr), nil
}
