package smf

// Variable-length quantity masks (big-endian, 7 bits per byte, high bit
// flags continuation). Delta times and meta/sysex lengths use this
// encoding; the largest representable value is 0x0FFFFFFF in 4 bytes.
const (
	vlqDataMask = 0x7F
	vlqContinue = 0x80
	vlqMaxBytes = 4
)

// readVarLen decodes a variable-length quantity starting at pos.
// Returns the value and the position of the first byte after it.
func readVarLen(data []byte, pos int) (uint32, int, error) {
	var v uint32
	for i := 0; i < vlqMaxBytes; i++ {
		if pos >= len(data) {
			return 0, pos, &TruncatedError{Offset: pos, What: "variable-length quantity"}
		}
		b := data[pos]
		pos++
		v = v<<7 | uint32(b&vlqDataMask)
		if b&vlqContinue == 0 {
			return v, pos, nil
		}
	}
	return 0, pos, &TruncatedError{Offset: pos, What: "variable-length quantity over 4 bytes"}
}
