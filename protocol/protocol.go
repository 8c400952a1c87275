// Package protocol implements the framed serial link used to report joystick events
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// Frame layout: [len][seq][payload...][crc_hi][crc_lo][sync]
const (
	MessageMax         = 512 // Scratch buffer capacity
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)
