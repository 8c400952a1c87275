package protocol

import (
	"errors"
	"io"
	"sync"
)

var (
	ErrBadFrame      = errors.New("malformed frame")
	ErrFrameTooLarge = errors.New("payload does not fit in one frame")
)

// EncodeFrame appends one complete frame carrying payload to output.
func EncodeFrame(output OutputBuffer, seq uint8, payload []byte) error {
	msgLen := MessageLengthMin + len(payload)
	if msgLen > MessageLengthMax {
		return ErrFrameTooLarge
	}

	start := output.CurPosition()
	output.Output([]byte{byte(msgLen), MessageDest | (seq & MessageSeqMask)})
	output.Output(payload)

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{byte(crc >> 8), byte(crc), MessageValueSync})
	return nil
}

// FrameWriter frames messages onto a byte stream, advancing the sequence per frame.
type FrameWriter struct {
	mu      sync.Mutex
	w       io.Writer
	seq     uint8
	scratch *ScratchOutput
	payload *ScratchOutput
}

// NewFrameWriter creates a writer that emits frames to w
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{
		w:       w,
		scratch: NewScratchOutput(),
		payload: NewScratchOutput(),
	}
}

// WriteMessage sends message id followed by the arguments written by encode.
func (fw *FrameWriter) WriteMessage(id uint16, encode func(output OutputBuffer)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.payload.Reset()
	EncodeVLQUint(fw.payload, uint32(id))
	if encode != nil {
		encode(fw.payload)
	}

	fw.scratch.Reset()
	if err := EncodeFrame(fw.scratch, fw.seq, fw.payload.Result()); err != nil {
		return err
	}
	fw.seq = (fw.seq + 1) & MessageSeqMask

	_, err := fw.w.Write(fw.scratch.Result())
	return err
}

// FrameDecoder extracts frames from a byte stream that may contain garbage,
// resynchronising on the sync byte after any malformed frame.
type FrameDecoder struct {
	input          *FifoBuffer
	isSynchronized bool
	nextSequence   uint8
	haveSequence   bool

	// Counters for diagnostics
	BadFrames    uint32
	MissedFrames uint32
	DroppedBytes uint32
}

// NewFrameDecoder creates a decoder with an input window of capacity bytes
func NewFrameDecoder(capacity int) *FrameDecoder {
	return &FrameDecoder{
		input:          NewFifoBuffer(capacity),
		isSynchronized: true,
	}
}

// Feed appends received bytes. Bytes that do not fit are counted and dropped;
// call Next until it reports no frame before feeding more.
func (d *FrameDecoder) Feed(data []byte) {
	n := d.input.Write(data)
	d.DroppedBytes += uint32(len(data) - n)
}

// Next returns the payload of the next complete, valid frame.
// The returned slice is only valid until the next call to Feed or Next.
func (d *FrameDecoder) Next() ([]byte, bool) {
	data := d.input.Data()
	consumed := 0
	defer func() { d.input.Pop(consumed) }()

	for consumed < len(data) {
		rest := data[consumed:]

		if !d.isSynchronized {
			syncPos := -1
			for i, b := range rest {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				consumed = len(data)
				return nil, false
			}
			consumed += syncPos + 1
			d.isSynchronized = true
			continue
		}

		if rest[0] == MessageValueSync {
			consumed++
			continue
		}

		if len(rest) < MessageLengthMin {
			return nil, false
		}

		msgLen := int(rest[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.badFrame()
			continue
		}

		seq := rest[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.badFrame()
			continue
		}

		if len(rest) < msgLen {
			return nil, false
		}

		if rest[msgLen-MessageTrailerSync] != MessageValueSync {
			d.badFrame()
			continue
		}

		frameCRC := uint16(rest[msgLen-MessageTrailerCRC])<<8 |
			uint16(rest[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(rest[:msgLen-MessageTrailerSize]) {
			d.badFrame()
			continue
		}

		d.trackSequence(seq & MessageSeqMask)
		consumed += msgLen
		return rest[MessageHeaderSize : msgLen-MessageTrailerSize], true
	}
	return nil, false
}

func (d *FrameDecoder) badFrame() {
	d.BadFrames++
	d.isSynchronized = false
}

func (d *FrameDecoder) trackSequence(seq uint8) {
	if d.haveSequence && seq != d.nextSequence {
		d.MissedFrames += uint32((seq - d.nextSequence) & MessageSeqMask)
	}
	d.haveSequence = true
	d.nextSequence = (seq + 1) & MessageSeqMask
}
