package smf

import "fmt"

// HeaderError reports an MThd chunk whose tag or declared size does not
// match the SMF header contract.
type HeaderError struct {
	Tag  string
	Size uint32
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("malformed header: tag %q size %d (want %q size %d)",
		e.Tag, e.Size, TagHeader, headerDataSize)
}

// TruncatedError reports a buffer or stream that ended in the middle of
// a field. Offset is the byte position within the current chunk payload
// where decoding stopped, when known.
type TruncatedError struct {
	Offset int
	What   string
}

func (e *TruncatedError) Error() string {
	if e.What != "" {
		return fmt.Sprintf("truncated stream: %s at offset %d", e.What, e.Offset)
	}
	return fmt.Sprintf("truncated stream at offset %d", e.Offset)
}

// StatusError reports a data byte encountered where an event should
// start while no running status is in effect.
type StatusError struct {
	Offset int
	Status byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unknown status byte 0x%02x at offset %d (no running status)",
		e.Status, e.Offset)
}
