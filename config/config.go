package config

import (
	"encoding/json"
	"errors"
	"time"

	"gojoy/core"
	"gojoy/joystick"
)

// BandConfig is an inclusive range of raw samples
type BandConfig struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RangeConfig maps a band to a button name ("red", "green", ...)
type RangeConfig struct {
	Button string `json:"button"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// ProfileConfig replaces one of the built-in calibrations
type ProfileConfig struct {
	Idle   BandConfig    `json:"idle"`
	Ranges []RangeConfig `json:"ranges"`
}

// ProfilesConfig holds optional calibration overrides
type ProfilesConfig struct {
	Primary   *ProfileConfig `json:"primary,omitempty"`
	Alternate *ProfileConfig `json:"alternate,omitempty"`
}

// Config describes one joystick installation and the host link to it
type Config struct {
	// Where the joystick is plugged in. Pin wins over Port when both are set.
	Port       string  `json:"port"`
	Pin        *uint32 `json:"pin,omitempty"`
	PrimaryPin uint32  `json:"primary_pin"`

	SampleIntervalMs    int            `json:"sample_interval_ms"`
	EventID             uint16         `json:"event_id"`
	ValidateCalibration *bool          `json:"validate_calibration,omitempty"`
	Profiles            ProfilesConfig `json:"profiles"`

	// Host serial link
	Device string `json:"device"`
	Baud   int    `json:"baud"`
}

var ErrNoRanges = errors.New("profile has no ranges")

// LoadConfig parses a JSON configuration string and returns a Config
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *Config) {
	if config.Port == "" {
		config.Port = string(core.PortP0)
	}
	if config.SampleIntervalMs <= 0 {
		config.SampleIntervalMs = 20
	}
	if config.EventID == 0 {
		config.EventID = joystick.EventID
	}
	if config.ValidateCalibration == nil {
		validate := true
		config.ValidateCalibration = &validate
	}
	if config.Device == "" {
		config.Device = "/dev/ttyACM0"
	}
	if config.Baud == 0 {
		config.Baud = 115200
	}
}

// DefaultConfig returns the configuration of a joystick on the primary port
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// SampleInterval returns the pause between samples
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMs) * time.Millisecond
}

// JoystickOptions converts the configuration into sampler options
func (c *Config) JoystickOptions() (joystick.Options, error) {
	opts := joystick.Options{
		EventID:             c.EventID,
		SampleInterval:      c.SampleInterval(),
		PrimaryPin:          core.ADCChannelID(c.PrimaryPin),
		ValidateCalibration: c.ValidateCalibration != nil && *c.ValidateCalibration,
	}

	var err error
	if c.Profiles.Primary != nil {
		opts.Primary, err = c.Profiles.Primary.profile("custom primary")
		if err != nil {
			return opts, err
		}
	}
	if c.Profiles.Alternate != nil {
		opts.Alternate, err = c.Profiles.Alternate.profile("custom alternate")
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// profile builds an override. Overrides report ProfileCustom on the wire so a
// host can tell them from the built-in tables.
func (pc *ProfileConfig) profile(name string) (*joystick.Profile, error) {
	if len(pc.Ranges) == 0 {
		return nil, ErrNoRanges
	}
	p := &joystick.Profile{
		ID:   joystick.ProfileCustom,
		Name: name,
		Idle: joystick.Band{Min: pc.Idle.Min, Max: pc.Idle.Max},
	}
	for _, rc := range pc.Ranges {
		b, err := joystick.ParseButton(rc.Button)
		if err != nil || !b.Valid() {
			return nil, joystick.ErrInvalidButton
		}
		p.Ranges = append(p.Ranges, joystick.Range{
			Button: b,
			Band:   joystick.Band{Min: rc.Min, Max: rc.Max},
		})
	}
	return p, nil
}

// Init points j at the configured pin or port
func (c *Config) Init(j *joystick.Joystick, ports core.PortMap) error {
	if c.Pin != nil {
		return j.InitPin(core.ADCChannelID(*c.Pin))
	}
	return j.InitPort(ports, core.Port(c.Port))
}
