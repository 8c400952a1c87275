package core

import "errors"

// Port names a connector on the breakout board the sensor plugs into.
type Port string

// Well-known analog ports of the Keyestudio-style shield.
const (
	PortP0  Port = "P0"
	PortP1  Port = "P1"
	PortP2  Port = "P2"
	PortP3  Port = "P3"
	PortP4  Port = "P4"
	PortP10 Port = "P10"
)

var ErrUnknownPort = errors.New("unknown analog port")

// PortMap resolves a connector to the ADC channel wired behind it.
type PortMap map[Port]ADCChannelID

// Pin returns the channel wired to port.
func (m PortMap) Pin(port Port) (ADCChannelID, error) {
	ch, ok := m[port]
	if !ok {
		return 0, ErrUnknownPort
	}
	return ch, nil
}

// Global port map, set by the target alongside its ADC driver.
var portMap PortMap

// SetPortMap registers the board's connector wiring.
func SetPortMap(m PortMap) {
	portMap = m
}

// GetPortMap returns the registered wiring, or nil if the target set none.
func GetPortMap() PortMap {
	return portMap
}
