//go:build rp2040

package main

import (
	"errors"
	"sync"

	"gojoy/core"
	"machine"

	"tinygo.org/x/drivers/mcp3008"
)

const mcp3008Channels = 8

var errMCPChannel = errors.New("mcp3008 channel out of range")

// MCP3008Driver serves the secondary joystick ports from an MCP3008 on SPI.
type MCP3008Driver struct {
	mu  sync.Mutex
	dev *mcp3008.Device
}

// NewMCP3008Driver configures bus and returns a driver for the chip
// selected by cs.
func NewMCP3008Driver(bus *machine.SPI, sck, sdo, sdi, cs machine.Pin) (*MCP3008Driver, error) {
	err := bus.Configure(machine.SPIConfig{
		Frequency: 1_000_000,
		SCK:       sck,
		SDO:       sdo,
		SDI:       sdi,
		Mode:      0,
	})
	if err != nil {
		return nil, err
	}

	dev := mcp3008.New(bus, cs)
	dev.Configure()
	return &MCP3008Driver{dev: dev}, nil
}

// ConfigureChannel only checks the range; the chip has no per-channel setup.
func (d *MCP3008Driver) ConfigureChannel(ch core.ADCChannelID) error {
	if ch >= mcp3008Channels {
		return errMCPChannel
	}
	return nil
}

// ReadRaw returns the 10-bit conversion for ch.
func (d *MCP3008Driver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	if ch >= mcp3008Channels {
		return 0, errMCPChannel
	}

	d.mu.Lock()
	v, err := d.dev.Read(int(ch))
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}
	// The driver left-aligns the 10-bit result into 16 bits
	return core.ScaleToADC(v, 16), nil
}
