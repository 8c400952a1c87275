package core

import "sync"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one sampler transition for post-mortem analysis
type TraceEvent struct {
	EventType uint8        // Event type code
	Channel   ADCChannelID // ADC channel the sample came from
	Value     ADCValue     // Raw sample
	Symbol    uint8        // Classified symbol (0 = idle)
}

// Event type codes
const (
	EvtPress    = 1 // Non-idle symbol published
	EvtRelease  = 2 // Returned to idle
	EvtHold     = 3 // Symbol changed without passing through idle
	EvtReadFail = 4 // ADC read failed, folded into idle
)

const (
	TraceRingSize = 32 // Keep last 32 transitions
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	traceMu       sync.Mutex
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceEnabled  bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, stdout, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Falls back to DebugPrintln when the async worker was never started.
// Drops the message if the channel is full.
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordTrace captures a sampler transition in the ring buffer
func RecordTrace(eventType uint8, ch ADCChannelID, value ADCValue, symbol uint8) {
	if !traceEnabled {
		return
	}
	traceMu.Lock()
	defer traceMu.Unlock()
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		EventType: eventType,
		Channel:   ch,
		Value:     value,
		Symbol:    symbol,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// TraceSnapshot returns the recorded transitions, oldest first.
func TraceSnapshot() []TraceEvent {
	traceMu.Lock()
	defer traceMu.Unlock()
	out := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := traceRing[(start+i)%TraceRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpTraceRing outputs the trace ring buffer
func DumpTraceRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range TraceSnapshot() {
		var name string
		switch evt.EventType {
		case EvtPress:
			name = "PRESS"
		case EvtRelease:
			name = "RELEASE"
		case EvtHold:
			name = "HOLD"
		case EvtReadFail:
			name = "READ_FAIL!"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TRACE] " + name +
			" ch=" + utoa(uint32(evt.Channel)) +
			" value=" + utoa(uint32(evt.Value)) +
			" symbol=" + utoa(uint32(evt.Symbol)))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTraceRing clears the trace buffer
func ClearTraceRing() {
	traceMu.Lock()
	defer traceMu.Unlock()
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}
