package protocol

import (
	"bytes"
	"testing"
)

func encodeTestMessage(t *testing.T, w *FrameWriter, id uint16, args ...uint32) {
	t.Helper()
	err := w.WriteMessage(id, func(output OutputBuffer) {
		for _, a := range args {
			EncodeVLQUint(output, a)
		}
	})
	if err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}
}

func decodeArgs(t *testing.T, payload []byte, n int) []uint32 {
	t.Helper()
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		v, err := DecodeVLQUint(&payload)
		if err != nil {
			t.Fatalf("Decode arg %d failed: %v", i, err)
		}
		out = append(out, v)
	}
	return out
}

func TestEncodeFrameLayout(t *testing.T) {
	output := NewScratchOutput()
	if err := EncodeFrame(output, 3, []byte{0x01, 0x02}); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	frame := output.Result()
	if len(frame) != 7 {
		t.Fatalf("Expected 7 byte frame, got %d: %v", len(frame), frame)
	}
	if frame[MessagePositionLen] != 7 {
		t.Errorf("Length byte: expected 7, got %d", frame[0])
	}
	if frame[MessagePositionSeq] != MessageDest|3 {
		t.Errorf("Sequence byte: expected 0x13, got 0x%02X", frame[1])
	}
	if frame[len(frame)-1] != MessageValueSync {
		t.Errorf("Frame must end with sync byte, got 0x%02X", frame[len(frame)-1])
	}

	crc := CRC16(frame[:4])
	if frame[4] != byte(crc>>8) || frame[5] != byte(crc) {
		t.Errorf("CRC bytes mismatch: expected 0x%04X, got 0x%02X%02X", crc, frame[4], frame[5])
	}
}

func TestEncodeFrameTooLarge(t *testing.T) {
	output := NewScratchOutput()
	payload := make([]byte, MessageLengthMax)
	if err := EncodeFrame(output, 0, payload); err != ErrFrameTooLarge {
		t.Errorf("Expected ErrFrameTooLarge, got %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	w := NewFrameWriter(&wire)

	encodeTestMessage(t, w, 1, 0, 1)
	encodeTestMessage(t, w, 1, 0, 4)

	d := NewFrameDecoder(256)
	d.Feed(wire.Bytes())

	for i, button := range []uint32{1, 4} {
		payload, ok := d.Next()
		if !ok {
			t.Fatalf("Frame %d not decoded", i)
		}
		args := decodeArgs(t, payload, 3)
		if args[0] != 1 || args[1] != 0 || args[2] != button {
			t.Errorf("Frame %d: unexpected args %v", i, args)
		}
	}

	if _, ok := d.Next(); ok {
		t.Error("Decoder returned a frame from an empty stream")
	}
	if d.BadFrames != 0 || d.MissedFrames != 0 {
		t.Errorf("Unexpected counters: bad=%d missed=%d", d.BadFrames, d.MissedFrames)
	}
}

func TestFrameDecoderPartialFeed(t *testing.T) {
	var wire bytes.Buffer
	encodeTestMessage(t, NewFrameWriter(&wire), 2, 7)
	frame := wire.Bytes()

	d := NewFrameDecoder(64)
	d.Feed(frame[:3])
	if _, ok := d.Next(); ok {
		t.Fatal("Decoder returned a frame before it was complete")
	}

	d.Feed(frame[3:])
	payload, ok := d.Next()
	if !ok {
		t.Fatal("Frame not decoded after the remaining bytes arrived")
	}
	if args := decodeArgs(t, payload, 2); args[0] != 2 || args[1] != 7 {
		t.Errorf("Unexpected args %v", args)
	}
}

func TestFrameDecoderResync(t *testing.T) {
	var wire bytes.Buffer
	w := NewFrameWriter(&wire)
	encodeTestMessage(t, w, 1, 0, 2)
	encodeTestMessage(t, w, 1, 0, 3)

	stream := append([]byte{0x00, 0x42}, wire.Bytes()...)
	// Corrupt the CRC of the first real frame
	firstLen := int(stream[2])
	stream[2+firstLen-MessageTrailerCRC] ^= 0xFF

	d := NewFrameDecoder(256)
	d.Feed(stream)

	payload, ok := d.Next()
	if !ok {
		t.Fatal("Decoder did not recover after corrupted frame")
	}
	if args := decodeArgs(t, payload, 3); args[2] != 3 {
		t.Errorf("Expected the second frame (button 3), got %v", args)
	}
	if d.BadFrames == 0 {
		t.Error("Corrupted frames were not counted")
	}
	t.Logf("bad=%d missed=%d", d.BadFrames, d.MissedFrames)
}

func TestFrameDecoderMissedSequence(t *testing.T) {
	var wire bytes.Buffer
	w := NewFrameWriter(&wire)
	encodeTestMessage(t, w, 1, 0, 1)
	first := append([]byte(nil), wire.Bytes()...)
	wire.Reset()
	encodeTestMessage(t, w, 1, 0, 2) // lost on the wire
	wire.Reset()
	encodeTestMessage(t, w, 1, 0, 3)

	d := NewFrameDecoder(256)
	d.Feed(first)
	d.Feed(wire.Bytes())
	for i := 0; i < 2; i++ {
		if _, ok := d.Next(); !ok {
			t.Fatalf("Frame %d not decoded", i)
		}
	}
	if d.MissedFrames != 1 {
		t.Errorf("Expected 1 missed frame, got %d", d.MissedFrames)
	}
}
