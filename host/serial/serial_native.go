//go:build !wasm

package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

var errNoConfig = errors.New("serial config is nil")

// nativePort is a Port on a real device node, backed by tarm/serial.
// A read that hits ReadTimeout returns io.EOF with no data.
type nativePort struct {
	*serial.Port
	device string
}

// Open opens cfg.Device.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errNoConfig
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &nativePort{Port: p, device: cfg.Device}, nil
}

func (p *nativePort) String() string { return p.device }
