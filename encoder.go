package huf

import (
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// Encoder packs the codes of a byte stream into a bitstream.
//
// Bytes written to an Encoder are replaced by their codes from a CodeTable.
// Close appends the code of EndOfStream and pads the final byte with zero
// bits.  An Encoder created with a nil io.Writer performs a dry run: it
// tracks the bit count (and the trace, if enabled) without emitting anything.
type Encoder struct {
	table   CodeTable
	bw      *bitio.CountWriter
	bits    int64
	trace   []byte
	tracing bool
	closed  bool
}

// NewEncoder returns an Encoder that writes the bitstream to w, or performs a
// dry run if w is nil.
//
// The table must hold a code for EndOfStream and for every byte that will be
// written.
//
func NewEncoder(table CodeTable, w io.Writer) *Encoder {
	_, found := table[EndOfStream]
	assert.Assertf(found, "CodeTable has no code for %v", EndOfStream)

	e := &Encoder{table: table}
	if w != nil {
		e.bw = bitio.NewCountWriter(w)
	}
	return e
}

// Trace enables or disables accumulation of the bit-string returned by
// TraceString.
func (e *Encoder) Trace(enabled bool) {
	e.tracing = enabled
}

// Write encodes p.  If some byte of p has no code, the bytes before it are
// encoded and ErrMissingCode is returned.
func (e *Encoder) Write(p []byte) (int, error) {
	assert.Assertf(!e.closed, "Write called after Close")
	for i, b := range p {
		hc, found := e.table[Literal(b)]
		if !found {
			return i, fmt.Errorf("%w: %v", ErrMissingCode, Literal(b))
		}
		if err := e.emit(hc); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Close appends the code of EndOfStream and flushes the final, partial byte.
// It does not close the underlying io.Writer.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.emit(e.table[EndOfStream]); err != nil {
		return err
	}
	if e.bw != nil {
		if err := e.bw.Close(); err != nil {
			return fmt.Errorf("huf: flushing bitstream: %w", err)
		}
	}
	return nil
}

func (e *Encoder) emit(hc Code) error {
	if e.bw != nil {
		if err := e.bw.WriteBits(hc.Bits, hc.Size); err != nil {
			return fmt.Errorf("huf: writing bitstream: %w", err)
		}
	}
	e.bits += int64(hc.Size)
	if e.tracing {
		e.trace = appendBits(e.trace, hc.Size, hc.Bits)
	}
	return nil
}

// BitCount returns the number of bits encoded so far, excluding the padding
// added by Close.
func (e *Encoder) BitCount() int64 {
	return e.bits
}

// TraceString returns the bits encoded so far as a string of '0' and '1'
// characters, or "" if tracing was never enabled.
func (e *Encoder) TraceString() string {
	return string(e.trace)
}

var _ io.WriteCloser = (*Encoder)(nil)

// Encode encodes everything readable from r, followed by EndOfStream, into w.
// A nil w performs a dry run.  It returns the encoded bits as a string of '0'
// and '1' characters and the number of bits.
func Encode(r io.Reader, table CodeTable, w io.Writer) (string, int64, error) {
	e := NewEncoder(table, w)
	e.Trace(true)
	if _, err := io.Copy(e, r); err != nil {
		return "", e.BitCount(), err
	}
	if err := e.Close(); err != nil {
		return "", e.BitCount(), err
	}
	return e.TraceString(), e.BitCount(), nil
}
