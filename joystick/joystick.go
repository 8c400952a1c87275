// Package joystick turns one analog line into debounced button events for a
// five-position joystick whose buttons sit behind a resistor ladder.
//
//	    Black
//	Green     Yellow    Blue
//	    Red
package joystick

import (
	"context"
	"sync"
	"time"

	"gojoy/core"
)

const (
	// EventID is the event-bus source all joystick presses are raised on.
	EventID uint16 = 0x8100

	// DefaultSampleInterval is the pause between two samples.
	DefaultSampleInterval = 20 * time.Millisecond

	// DefaultPrimaryPin is the channel the primary calibration was measured on.
	DefaultPrimaryPin core.ADCChannelID = 0
)

// Options tune a Joystick. The zero value selects the defaults.
type Options struct {
	EventID        uint16
	SampleInterval time.Duration
	PrimaryPin     core.ADCChannelID

	// Primary and Alternate replace the built-in calibration when set.
	Primary   *Profile
	Alternate *Profile

	// ValidateCalibration logs overlapping bands when a profile is selected.
	ValidateCalibration bool
}

func (o *Options) applyDefaults() {
	if o.EventID == 0 {
		o.EventID = EventID
	}
	if o.SampleInterval <= 0 {
		o.SampleInterval = DefaultSampleInterval
	}
	if o.Primary == nil {
		o.Primary = PrimaryProfile()
	}
	if o.Alternate == nil {
		o.Alternate = AlternateProfile()
	}
}

// Joystick owns one analog input line, its calibration and the sampler that
// publishes presses onto an event bus.
type Joystick struct {
	adc  core.ADCDriver
	bus  *core.EventBus
	opts Options

	mu      sync.Mutex
	pin     core.ADCChannelID
	profile *Profile
	started bool
	cancel  context.CancelFunc
	done    chan struct{}

	// tickMu serializes Tick between the sampler and direct callers and
	// guards lastButton, the debounce memory.
	tickMu     sync.Mutex
	lastButton Button
}

// New creates a joystick reading from adc and publishing on bus.
// Until InitPin or InitPort is called it samples the primary pin with the
// primary calibration.
func New(adc core.ADCDriver, bus *core.EventBus, opts Options) *Joystick {
	opts.applyDefaults()
	return &Joystick{
		adc:     adc,
		bus:     bus,
		opts:    opts,
		pin:     opts.PrimaryPin,
		profile: opts.Primary,
	}
}

// InitPin selects the calibration for pin, enables the pin for analog input
// and makes it the active input. Any pin other than the primary one gets the
// alternate calibration.
//
// The calibration is selected even when enabling the pin fails; the error
// is returned for the caller to report.
func (j *Joystick) InitPin(pin core.ADCChannelID) error {
	profile := j.opts.Alternate
	if pin == j.opts.PrimaryPin {
		profile = j.opts.Primary
	}

	if j.opts.ValidateCalibration {
		if err := profile.Validate(); err != nil {
			core.DebugPrintln("[JOY] calibration warning: " + err.Error())
		}
	}

	err := j.adc.ConfigureChannel(pin)

	j.mu.Lock()
	j.pin = pin
	j.profile = profile
	j.mu.Unlock()

	core.DebugPrintln("[JOY] pin=" + core.Itoa(int(pin)) + " profile=" + profile.Name)
	return err
}

// InitPort resolves port through ports and initializes the pin behind it.
// A nil map falls back to the one registered by the target.
func (j *Joystick) InitPort(ports core.PortMap, port core.Port) error {
	if ports == nil {
		ports = core.GetPortMap()
	}
	pin, err := ports.Pin(port)
	if err != nil {
		return err
	}
	return j.InitPin(pin)
}

// Pin returns the active input channel.
func (j *Joystick) Pin() core.ADCChannelID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pin
}

// Profile returns the active calibration.
func (j *Joystick) Profile() *Profile {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.profile
}

// OnButtonPressed starts the sampler if needed and calls handler every time
// button is pressed. Holding a button fires once; it fires again only after the
// joystick returned to idle or another button was pressed.
func (j *Joystick) OnButtonPressed(button Button, handler func()) error {
	if !button.Valid() {
		return ErrInvalidButton
	}
	j.Start(context.Background())
	j.bus.OnEvent(j.opts.EventID, button.code(), func(core.Event) {
		handler()
	})
	return nil
}

// OnAnyButton starts the sampler if needed and calls handler with every press.
func (j *Joystick) OnAnyButton(handler func(Button)) {
	j.Start(context.Background())
	j.bus.OnEvent(j.opts.EventID, core.EventValueAny, func(evt core.Event) {
		if b := ButtonFromCode(uint32(evt.Value)); b.Valid() {
			handler(b)
		}
	})
}

// Start launches the sampler. Only the first call has an effect; the sampler
// runs until ctx is done or Stop is called, and is never started again.
func (j *Joystick) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.started = true

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.run(ctx, j.done)
}

// Running reports whether the sampler was ever started.
func (j *Joystick) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.started
}

// Stop asks the sampler to exit after its current tick and waits for it.
func (j *Joystick) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (j *Joystick) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	core.DebugPrintln("[JOY] sampler started")
	ticker := time.NewTicker(j.opts.SampleInterval)
	defer ticker.Stop()

	for {
		j.Tick()
		select {
		case <-ctx.Done():
			core.DebugPrintln("[JOY] sampler stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick takes one sample, classifies it, and publishes it if it is a new press.
// It returns the classified button.
//
// A failed read counts as idle: a disconnected sensor looks like a joystick
// nobody touches.
//
// Tick is safe to call while the sampler runs; both share one debounce memory.
func (j *Joystick) Tick() Button {
	j.tickMu.Lock()
	defer j.tickMu.Unlock()

	j.mu.Lock()
	pin, profile := j.pin, j.profile
	j.mu.Unlock()

	current := ButtonNone
	value, err := j.adc.ReadRaw(pin)
	if err != nil {
		core.RecordTrace(core.EvtReadFail, pin, 0, 0)
	} else {
		current = profile.Classify(int(value))
	}

	if current != ButtonNone && current != j.lastButton {
		j.bus.RaiseEvent(j.opts.EventID, current.code())
		if j.lastButton == ButtonNone {
			core.RecordTrace(core.EvtPress, pin, value, uint8(current))
		} else {
			core.RecordTrace(core.EvtHold, pin, value, uint8(current))
		}
	} else if current == ButtonNone && j.lastButton != ButtonNone && err == nil {
		core.RecordTrace(core.EvtRelease, pin, value, 0)
	}

	j.lastButton = current
	return current
}
