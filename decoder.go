package huf

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// Decoder walks a Huffman tree bit by bit to turn a bitstream back into
// bytes.
type Decoder struct {
	root    *Node
	br      *bitio.Reader
	trace   []byte
	tracing bool
}

// NewDecoder returns a Decoder that reads a bitstream from r and decodes it
// with the tree rooted at root.  The tree must have been built from the same
// FrequencyMap as the encoding tree.
func NewDecoder(root *Node, r io.Reader) *Decoder {
	return &Decoder{root: root, br: bitio.NewReader(r)}
}

// Trace enables or disables accumulation of the decoded bytes returned by
// TraceString.
func (d *Decoder) Trace(enabled bool) {
	d.tracing = enabled
}

// Decode decodes the bitstream into w until the code of EndOfStream is read.
// The bits that follow it in the final byte are ignored.
//
// Decode returns ErrTruncated if the bitstream ends first, and ErrCorrupt if
// the bits lead to a missing child.  Bytes decoded before such an error have
// already been written to w.
//
func (d *Decoder) Decode(w io.Writer) error {
	if d.root == nil || d.root.IsLeaf() {
		return fmt.Errorf("%w: tree has no internal root", ErrCorrupt)
	}

	bw := bufio.NewWriter(w)
	var numBits, numBytes int64
	node := d.root
	for {
		bit, err := d.br.ReadBool()
		if errors.Is(err, io.EOF) {
			bw.Flush()
			return fmt.Errorf("%w: no %v after %d bits (%d bytes decoded)", ErrTruncated, EndOfStream, numBits, numBytes)
		}
		if err != nil {
			bw.Flush()
			return fmt.Errorf("huf: reading bitstream: %w", err)
		}
		numBits++

		if bit {
			node = node.One
		} else {
			node = node.Zero
		}
		if node == nil {
			bw.Flush()
			return fmt.Errorf("%w: dead end at bit %d (%d bytes decoded)", ErrCorrupt, numBits-1, numBytes)
		}
		if !node.IsLeaf() {
			continue
		}

		if node.Symbol == EndOfStream {
			break
		}
		b := node.Symbol.Byte()
		if err := bw.WriteByte(b); err != nil {
			return fmt.Errorf("huf: writing output: %w", err)
		}
		if d.tracing {
			d.trace = append(d.trace, b)
		}
		numBytes++
		node = d.root
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("huf: writing output: %w", err)
	}
	return nil
}

// TraceString returns the bytes decoded so far, or "" if tracing was never
// enabled.
func (d *Decoder) TraceString() string {
	return string(d.trace)
}

// Decode decodes the bitstream read from r with the tree rooted at root and
// writes the result to w, which may be nil.  It returns the decoded bytes as
// a string.
func Decode(r io.Reader, root *Node, w io.Writer) (string, error) {
	if w == nil {
		w = io.Discard
	}
	d := NewDecoder(root, r)
	d.Trace(true)
	err := d.Decode(w)
	return d.TraceString(), err
}
