package huf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic is the first four bytes of every ".huf" stream: "HUF" followed by the
// format version.
var Magic = [4]byte{'H', 'U', 'F', 0x01}

// maxHeaderEntries is the size of the alphabet: 256 literals plus EndOfStream.
const maxHeaderEntries = int(EndOfStream) + 1

// WriteHeader writes fm to w as the header of a ".huf" stream:
//
//     magic    [4]byte  Magic
//     n        uvarint  number of entries
//     entries  n × { symbol uvarint, count uvarint }, ascending by symbol
//
func WriteHeader(w io.Writer, fm *FrequencyMap) (int64, error) {
	if err := fm.Validate(); err != nil {
		return 0, err
	}

	keys := fm.Keys()
	buf := make([]byte, 0, len(Magic)+binary.MaxVarintLen64*(1+2*len(keys)))
	buf = append(buf, Magic[:]...)
	buf = binary.AppendUvarint(buf, uint64(len(keys)))
	for _, sym := range keys {
		buf = binary.AppendUvarint(buf, uint64(sym))
		buf = binary.AppendUvarint(buf, fm.Get(sym))
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("huf: writing header: %w", err)
	}
	return int64(n), nil
}

// ReadHeader reads the header written by WriteHeader and returns the
// FrequencyMap it holds.  The reader is left positioned at the first byte of
// the bitstream.
func ReadHeader(r io.ByteReader) (*FrequencyMap, error) {
	var magic [4]byte
	for i := range magic {
		b, err := r.ReadByte()
		if err != nil {
			return nil, headerError("magic", err)
		}
		magic[i] = b
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrBadMagic, magic[:], Magic[:])
	}

	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, headerError("entry count", err)
	}
	if n == 0 || n > uint64(maxHeaderEntries) {
		return nil, fmt.Errorf("%w: header has %d entries", ErrInvalidFrequencies, n)
	}

	fm := NewFrequencyMap()
	last := int64(-1)
	for i := uint64(0); i < n; i++ {
		sym, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, headerError("symbol", err)
		}
		if int64(sym) <= last || sym > uint64(EndOfStream) {
			return nil, fmt.Errorf("%w: header entry %d has symbol %d after %d", ErrInvalidFrequencies, i, sym, last)
		}
		last = int64(sym)

		count, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, headerError("count", err)
		}
		fm.Put(Symbol(sym), count)
	}

	if err := fm.Validate(); err != nil {
		return nil, err
	}
	return fm, nil
}

func headerError(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: header ends before %s", ErrTruncated, field)
	}
	return fmt.Errorf("huf: reading header %s: %w", field, err)
}

// NewHeaderReader wraps r so that it can be passed to ReadHeader and then to
// NewDecoder without losing buffered bytes.
func NewHeaderReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
