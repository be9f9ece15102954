package huf

import "errors"

var (
	// ErrInvalidFrequencies is returned when a FrequencyMap cannot be used
	// to build a tree.
	ErrInvalidFrequencies = errors.New("huf: invalid frequency map")

	// ErrMissingCode is returned when encoding a byte that has no entry in
	// the CodeTable.
	ErrMissingCode = errors.New("huf: no code for symbol")

	// ErrCodeTooLong is returned when a tree is too deep for its codes to
	// fit in a Code.
	ErrCodeTooLong = errors.New("huf: code exceeds 64 bits")

	// ErrTruncated is returned when the input ends before the end-of-stream
	// symbol (or before the end of the header).
	ErrTruncated = errors.New("huf: truncated stream")

	// ErrCorrupt is returned when the bitstream cannot have been produced by
	// an Encoder using the same tree.
	ErrCorrupt = errors.New("huf: corrupt stream")

	// ErrBadMagic is returned when a header does not start with Magic.
	ErrBadMagic = errors.New("huf: bad magic number")
)
