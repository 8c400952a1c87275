// Package serial opens the USB CDC port a joystick board enumerates as.
package serial

import "io"

// Port is the link to the board. host/monitor only needs to read frames and
// drop stale input on connect; tests substitute in-memory readers.
type Port interface {
	io.ReadWriteCloser

	// Flush discards bytes received before the monitor attached.
	Flush() error
}

// Config selects the device node and read behaviour.
type Config struct {
	Device string // e.g. "/dev/ttyACM0" or "COM3"

	// Baud is passed to the driver; USB CDC links ignore it.
	Baud int

	// ReadTimeout bounds each Read in milliseconds so Monitor.Run can notice
	// cancellation. 0 blocks.
	ReadTimeout int
}

// DefaultConfig returns the settings the firmware's USB bridge expects.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
