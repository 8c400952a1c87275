//go:build rp2040

package main

import (
	"errors"
	"machine"
	"sync"
)

// maxWriteFailures is how many failed writes in a row mark the host as gone
const maxWriteFailures = 10

var errUSBStalled = errors.New("usb write made no progress")

// InitUSB initializes USB serial communication.
// On RP2040 machine.Serial is USB CDC-ACM, set up by TinyGo's runtime.
func InitUSB() {
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		return
	}
}

// usbWriter pushes complete frames to the USB CDC endpoint. Frames are
// dropped while the host is disconnected so stale presses are not
// replayed on reconnect.
type usbWriter struct {
	mu                       sync.Mutex
	consecutiveWriteFailures uint32
	disconnected             bool
}

func newUSBWriter() *usbWriter {
	return &usbWriter{}
}

// Write sends p, handling partial writes
func (u *usbWriter) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	written := 0
	for written < len(p) {
		n, err := machine.Serial.Write(p[written:])
		if err == nil && n == 0 {
			err = errUSBStalled
		}
		if err != nil {
			u.consecutiveWriteFailures++
			if u.consecutiveWriteFailures > maxWriteFailures {
				u.disconnected = true
				u.consecutiveWriteFailures = 0
			}
			return written, err
		}
		written += n
	}

	u.consecutiveWriteFailures = 0
	u.disconnected = false
	return written, nil
}

// Connected reports whether the last writes reached the host
func (u *usbWriter) Connected() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return !u.disconnected
}
