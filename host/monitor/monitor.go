package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gojoy/core"
	"gojoy/host/serial"
	"gojoy/joystick"
	"gojoy/protocol"
)

// ConfigHandler receives joystick_config announcements.
type ConfigHandler func(oid uint8, pin core.ADCChannelID, profile uint8)

// Monitor follows a joystick bridge over a serial link and dispatches its
// presses to handlers registered on the host.
type Monitor struct {
	port     io.ReadCloser
	registry *core.MessageRegistry
	decoder  *protocol.FrameDecoder
	bus      *core.EventBus
	eventID  uint16

	onConfig ConfigHandler

	// Counters for diagnostics
	Presses      uint32
	DecodeErrors uint32
}

// New creates a monitor reading frames from port.
func New(port io.ReadCloser) *Monitor {
	m := &Monitor{
		port:     port,
		registry: core.NewMessageRegistry(),
		decoder:  protocol.NewFrameDecoder(256),
		bus:      core.NewEventBus(),
		eventID:  joystick.EventID,
	}
	joystick.RegisterMessages(m.registry)
	m.registry.SetHandler(joystick.MsgJoystickConfig, m.handleConfig)
	m.registry.SetHandler(joystick.MsgJoystickButton, m.handleButton)
	return m
}

// Connect opens the serial device and returns a monitor for it.
func Connect(cfg *serial.Config) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", cfg.Device, err)
	}
	return New(port), nil
}

// Close closes the underlying port.
func (m *Monitor) Close() error {
	return m.port.Close()
}

// OnButtonPressed calls handler for every forwarded press of button.
func (m *Monitor) OnButtonPressed(button joystick.Button, handler func()) error {
	if !button.Valid() {
		return joystick.ErrInvalidButton
	}
	m.bus.OnEvent(m.eventID, uint16(button), func(core.Event) {
		handler()
	})
	return nil
}

// OnAnyButton calls handler for every forwarded press.
func (m *Monitor) OnAnyButton(handler func(joystick.Button)) {
	m.bus.OnEvent(m.eventID, core.EventValueAny, func(evt core.Event) {
		if b := joystick.ButtonFromCode(uint32(evt.Value)); b.Valid() {
			handler(b)
		}
	})
}

// OnConfig calls handler whenever the device announces its configuration.
func (m *Monitor) OnConfig(handler ConfigHandler) {
	m.onConfig = handler
}

// Process decodes received bytes and runs the handlers of every complete message.
func (m *Monitor) Process(data []byte) {
	m.decoder.Feed(data)
	for {
		payload, ok := m.decoder.Next()
		if !ok {
			break
		}
		id, err := protocol.DecodeVLQUint(&payload)
		if err == nil {
			err = m.registry.Dispatch(uint16(id), &payload)
		}
		if err != nil {
			m.DecodeErrors++
			core.DebugPrintln("[MON] dropped message: " + err.Error())
		}
	}
	m.bus.Dispatch()
}

// Stats returns the decoder's error counters.
func (m *Monitor) Stats() (badFrames, missedFrames uint32) {
	return m.decoder.BadFrames, m.decoder.MissedFrames
}

// Run reads the port until ctx is done or the port fails.
// Read timeouts surface as io.EOF from the native port and are ignored.
func (m *Monitor) Run(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := m.port.Read(buf)
		if n > 0 {
			m.Process(buf[:n])
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("serial read failed: %w", err)
		}
	}
}

func (m *Monitor) handleConfig(data *[]byte) error {
	oid, pin, profile, err := joystick.DecodeConfigMessage(data)
	if err != nil {
		return err
	}
	if m.onConfig != nil {
		m.onConfig(oid, pin, profile)
	}
	return nil
}

func (m *Monitor) handleButton(data *[]byte) error {
	_, button, err := joystick.DecodeButtonMessage(data)
	if err != nil {
		return err
	}
	m.Presses++
	m.bus.RaiseEvent(m.eventID, uint16(button))
	return nil
}
