package huf

import (
	"fmt"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// Symbol represents one symbol of the codec's alphabet: a literal byte, the
// synthetic end-of-stream marker, or the tag carried by internal tree nodes.
type Symbol int32

const (
	// MaxLiteral is the largest Symbol that represents a literal byte.
	MaxLiteral = Symbol(255)

	// EndOfStream is the synthetic symbol appended after the last literal.
	// It is never produced by input data.
	EndOfStream = Symbol(256)

	// Internal is the tag carried by internal tree nodes.  It never appears
	// in a FrequencyMap or a CodeTable.
	Internal = Symbol(-1)
)

// Kind classifies a Symbol.
type Kind byte

const (
	KindInvalid Kind = iota
	KindLiteral
	KindEndOfStream
	KindInternal
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindLiteral:     "literal",
	KindEndOfStream: "end-of-stream",
	KindInternal:    "internal",
}

// String returns the name of this Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Literal returns the Symbol for byte b.
func Literal(b byte) Symbol {
	return Symbol(b)
}

// Kind returns the classification of this Symbol.
func (s Symbol) Kind() Kind {
	switch {
	case s >= 0 && s <= MaxLiteral:
		return KindLiteral
	case s == EndOfStream:
		return KindEndOfStream
	case s == Internal:
		return KindInternal
	default:
		return KindInvalid
	}
}

// IsCodeable returns true if this Symbol may appear as a leaf, i.e. if it is a
// literal or EndOfStream.
func (s Symbol) IsCodeable() bool {
	k := s.Kind()
	return k == KindLiteral || k == KindEndOfStream
}

// Byte returns the literal byte of this Symbol.  It panics if the Symbol is
// not a literal.
func (s Symbol) Byte() byte {
	assert.Assertf(s.Kind() == KindLiteral, "Symbol %d is not a literal", int32(s))
	return byte(s)
}

// String returns a programmer-readable representation of this Symbol.
func (s Symbol) String() string {
	switch s.Kind() {
	case KindLiteral:
		if s >= 0x20 && s < 0x7f {
			return strconv.QuoteRune(rune(s))
		}
		return fmt.Sprintf("0x%02x", int32(s))
	case KindEndOfStream:
		return "EOF"
	case KindInternal:
		return "INTERNAL"
	default:
		return "Symbol(" + strconv.Itoa(int(s)) + ")"
	}
}

var _ fmt.Stringer = Symbol(0)
