//go:build rp2040

package main

import (
	"context"
	"time"

	"gojoy/config"
	"gojoy/core"
	"gojoy/joystick"
	"machine"
)

// Pin assignments for a Pico carrier with a WS2812 status pixel and an
// MCP3008 on SPI0 for the secondary ports.
const (
	statusLEDPin = machine.GP15

	mcpSCK = machine.GP18
	mcpSDO = machine.GP19
	mcpSDI = machine.GP16
	mcpCS  = machine.GP17
)

// debugEnabled routes [JOY] logging to UART0 (GP0/GP1). USB carries
// only framed reports.
const debugEnabled = false

var usbOut *usbWriter

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	usbOut = newUSBWriter()

	if debugEnabled {
		machine.UART0.Configure(machine.UARTConfig{BaudRate: 115200})
		core.SetDebugWriter(func(msg string) {
			machine.UART0.Write([]byte(msg))
			machine.UART0.Write([]byte("\r\n"))
		})
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}

	registerPicoPorts()

	adc := NewRPAdcDriver()
	if err := adc.Init(); err != nil {
		core.DebugPrintln("[JOY] adc init failed: " + err.Error())
	}
	ext, err := NewMCP3008Driver(machine.SPI0, mcpSCK, mcpSDO, mcpSDI, mcpCS)
	if err != nil {
		core.DebugPrintln("[JOY] mcp3008 unavailable: " + err.Error())
	} else {
		adc.SetExpansion(ext)
	}
	core.SetADCDriver(adc)

	bus := core.NewEventBus()
	cfg := config.DefaultConfig()
	opts, err := cfg.JoystickOptions()
	if err != nil {
		core.DebugPrintln("[JOY] bad calibration: " + err.Error())
	}
	j := joystick.New(core.MustADC(), bus, opts)
	if err := cfg.Init(j, nil); err != nil {
		core.DebugPrintln("[JOY] init failed: " + err.Error())
	}

	led, err := NewStatusLED(statusLEDPin)
	if err != nil {
		core.DebugPrintln("[JOY] status led unavailable: " + err.Error())
	} else {
		j.OnAnyButton(led.Show)
	}

	bridge := joystick.NewBridge(0, usbOut)
	if err := bridge.Attach(j); err != nil {
		core.DebugPrintln("[JOY] config report failed: " + err.Error())
	}

	ctx := context.Background()
	j.Start(ctx)

	// Handler panics are recovered per handler by the bus; Run only
	// returns once ctx is done.
	bus.Run(ctx)
	for {
		time.Sleep(time.Second)
	}
}

// registerPicoPorts maps the edge connector labels onto ADC channels.
// P0..P2 are the RP2040's own ADC0..ADC2 (GPIO26..28); the rest go
// through the MCP3008.
func registerPicoPorts() {
	core.SetPortMap(core.PortMap{
		core.PortP0:  0,
		core.PortP1:  1,
		core.PortP2:  2,
		core.PortP3:  ExpansionChannelBase + 0,
		core.PortP4:  ExpansionChannelBase + 1,
		core.PortP10: ExpansionChannelBase + 2,
	})
}
