//go:build rp2040

package main

import (
	"errors"
	"sync"

	"gojoy/core"
	"machine"
)

// ExpansionChannelBase is the first channel id served by the external ADC
const ExpansionChannelBase core.ADCChannelID = 8

var errUnsupportedChannel = errors.New("unsupported ADC channel")

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC for
// channels 0-3 and an optional expansion driver for channels from
// ExpansionChannelBase upward.
type RpAdcDriver struct {
	mu        sync.Mutex
	channels  map[core.ADCChannelID]*machine.ADC
	expansion core.ADCDriver
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		channels: make(map[core.ADCChannelID]*machine.ADC),
	}
}

// Init powers up the ADC block
func (d *RpAdcDriver) Init() error {
	machine.InitADC()
	return nil
}

// SetExpansion routes channels >= ExpansionChannelBase to ext
func (d *RpAdcDriver) SetExpansion(ext core.ADCDriver) {
	d.mu.Lock()
	d.expansion = ext
	d.mu.Unlock()
}

// ConfigureChannel sets up a specific ADC channel (pin mux, etc.).
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch >= ExpansionChannelBase {
		if d.expansion == nil {
			return errUnsupportedChannel
		}
		return d.expansion.ConfigureChannel(ch - ExpansionChannelBase)
	}

	if _, ok := d.channels[ch]; ok {
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errUnsupportedChannel
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}

	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a 10-bit sample (0-1023).
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	d.mu.Lock()
	ext := d.expansion
	adc, ok := d.channels[ch]
	d.mu.Unlock()

	if ch >= ExpansionChannelBase {
		if ext == nil {
			return 0, errUnsupportedChannel
		}
		return ext.ReadRaw(ch - ExpansionChannelBase)
	}

	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		d.mu.Lock()
		adc = d.channels[ch]
		d.mu.Unlock()
	}

	// machine.ADC.Get scales the 12-bit conversion to 16 bits
	return core.ScaleToADC(adc.Get(), 16), nil
}
