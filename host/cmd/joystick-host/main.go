package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"

	"gojoy/config"
	"gojoy/core"
	"gojoy/host/monitor"
	"gojoy/host/serial"
	"gojoy/joystick"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config, ignored for USB CDC)")
	simulate   = flag.Bool("simulate", false, "Drive a joystick from raw values typed on stdin")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

// simPorts mirrors the shield wiring so port names work in simulation.
var simPorts = core.PortMap{
	core.PortP0:  0,
	core.PortP1:  1,
	core.PortP2:  2,
	core.PortP3:  3,
	core.PortP4:  4,
	core.PortP10: 10,
}

func main() {
	flag.Parse()

	fmt.Println("Joystick Host")
	fmt.Println("=============")
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.SetDebugEnabled(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *simulate {
		err = runSimulation(ctx, cfg)
	} else {
		err = runMonitor(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		cfg, err = config.LoadConfig(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", *configPath, err)
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	return cfg, nil
}

func runMonitor(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("Connecting to joystick bridge on %s...\n", cfg.Device)

	serialCfg := serial.DefaultConfig(cfg.Device)
	serialCfg.Baud = cfg.Baud
	mon, err := monitor.Connect(serialCfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer mon.Close()

	fmt.Println("Connected. Press joystick buttons, Ctrl-C to exit.")

	mon.OnConfig(func(oid uint8, pin core.ADCChannelID, profile uint8) {
		fmt.Printf("joystick %d on channel %d (profile %d)\n", oid, pin, profile)
	})
	mon.OnAnyButton(func(b joystick.Button) {
		fmt.Printf("pressed: %s\n", b)
	})

	if err := mon.Run(ctx); err != nil {
		return err
	}

	bad, missed := mon.Stats()
	fmt.Printf("\n%d presses, %d bad frames, %d missed frames, %d undecodable messages\n",
		mon.Presses, bad, missed, mon.DecodeErrors)
	return nil
}

// stdinADC returns the last value typed by the user.
type stdinADC struct {
	level atomic.Int32
}

func (a *stdinADC) ConfigureChannel(ch core.ADCChannelID) error {
	return nil
}

func (a *stdinADC) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	v := a.level.Load()
	if v < 0 {
		return 0, fmt.Errorf("sensor disconnected")
	}
	return core.ADCValue(v), nil
}

func runSimulation(ctx context.Context, cfg *config.Config) error {
	opts, err := cfg.JoystickOptions()
	if err != nil {
		return fmt.Errorf("invalid calibration: %w", err)
	}

	adc := &stdinADC{}
	bus := core.NewEventBus()
	joy := joystick.New(adc, bus, opts)
	if err := cfg.Init(joy, simPorts); err != nil {
		return fmt.Errorf("failed to initialize joystick: %w", err)
	}
	adc.level.Store(int32(joy.Profile().Idle.Min))

	joy.OnAnyButton(func(b joystick.Button) {
		fmt.Printf("pressed: %s\n", b)
	})
	defer joy.Stop()
	go bus.Run(ctx)

	fmt.Printf("Simulating joystick on channel %d with the %s profile (event id %s).\n",
		joy.Pin(), joy.Profile().Name, core.Hex4(opts.EventID))
	fmt.Println("Type a raw value (0-1023), 'help' for commands, 'quit' to exit.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if done := handleSimCommand(line, adc, joy); done {
				return nil
			}
		}
	}
}

func handleSimCommand(line string, adc *stdinADC, joy *joystick.Joystick) bool {
	switch line {
	case "":
		return false
	case "quit", "exit", "q":
		fmt.Println("Goodbye!")
		return true
	case "help", "?":
		printSimHelp()
	case "release":
		adc.level.Store(int32(joy.Profile().Idle.Min))
	case "unplug":
		adc.level.Store(-1)
	case "profile":
		p := joy.Profile()
		fmt.Printf("%s: idle %d-%d\n", p.Name, p.Idle.Min, p.Idle.Max)
		for _, r := range p.Ranges {
			fmt.Printf("  %-6s %d-%d\n", r.Button, r.Min, r.Max)
		}
	case "trace":
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.DumpTraceRing()
	default:
		v, err := parseLevel(line)
		if errors.Is(err, errLevelRange) {
			fmt.Printf("Level %s out of range (0-%d)\n", line, core.ADCMax)
			return false
		}
		if err != nil {
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", line)
			return false
		}
		adc.level.Store(int32(v))
		fmt.Printf("level %d classifies as %s\n", v, joy.Profile().Classify(v))
	}
	return false
}

var errLevelRange = errors.New("level outside the ADC range")

// parseLevel parses a raw sample the way the ADC could report it.
func parseLevel(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errLevelRange
	}
	if err != nil {
		return 0, err
	}
	if v < 0 || v > core.ADCMax {
		return 0, errLevelRange
	}
	return v, nil
}

func printSimHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  <number>       - Hold the sensor at this raw value")
	fmt.Println("  release        - Return to the idle band")
	fmt.Println("  unplug         - Make every read fail")
	fmt.Println("  profile        - Print the active calibration")
	fmt.Println("  trace          - Dump recent sampler transitions")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println()
}
