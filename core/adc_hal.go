package core

// ADCChannelID identifies a logical ADC channel.
// Targets decide how channel ids map onto on-chip or external converters.
type ADCChannelID uint32

// ADCValue is the "raw" ADC reading as seen by the rest of the firmware.
// Convention here: 10-bit value (0..ADCMax), whatever the converter resolution.
type ADCValue uint16

// ADCMax is the largest value a driver reports.
const ADCMax = 1023

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input.
	// For pin-muxed channels, this should set pin to analog mode.
	ConfigureChannel(ch ADCChannelID) error

	// ReadRaw performs a one-shot sample from the given channel.
	// Returns a 10-bit scaled value.
	ReadRaw(ch ADCChannelID) (ADCValue, error)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}

// ScaleToADC converts a reading of the given bit width to the 10-bit convention.
func ScaleToADC(raw uint16, bits uint8) ADCValue {
	if bits > 10 {
		return ADCValue(raw >> (bits - 10))
	}
	return ADCValue(raw << (10 - bits))
}
