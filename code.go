package huf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// MaxCodeSize is the largest number of bits a Code can hold.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size uint8

	// Bits holds the actual values of the bits.  The first bit of the
	// sequence is the most significant of the Size low bits, which is the
	// order in which a bitio.Writer emits them.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size uint8, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// ParseCode constructs a Code from a string of '0' and '1' characters.
func ParseCode(str string) (Code, error) {
	if len(str) > MaxCodeSize {
		return Code{}, fmt.Errorf("%w: %q", ErrCodeTooLong, str)
	}
	var hc Code
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			hc = hc.Append(0)
		case '1':
			hc = hc.Append(1)
		default:
			return Code{}, fmt.Errorf("huf: invalid bit %q at index %d in code %q", str[i], i, str)
		}
	}
	return hc, nil
}

// Append returns the Code extended by one bit.
func (hc Code) Append(bit uint) Code {
	return Code{Size: hc.Size + 1, Bits: hc.Bits<<1 | uint64(bit&1)}
}

// Bit returns the i'th bit of the sequence, counting from 0.
func (hc Code) Bit(i uint8) uint {
	return uint(hc.Bits>>(hc.Size-1-i)) & 1
}

// HasPrefix returns true if the first prefix.Size bits of this Code equal
// prefix.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	return hc.Bits>>(hc.Size-prefix.Size) == prefix.Bits
}

// Text returns the bits of this Code as a string of '0' and '1' characters.
func (hc Code) Text() string {
	return bitString(hc.Size, hc.Bits)
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return strconv.Quote(hc.Text())
}

var _ fmt.Stringer = Code{}

// CodeTable maps each leaf Symbol of a tree to its Code.
type CodeTable map[Symbol]Code

// BuildCodeTable walks the tree rooted at root and returns the Code of every
// leaf: '0' for each step into a Zero child, '1' for each step into a One
// child.
//
// A root that is itself a leaf receives the code "0", matching the code that
// BuildTree's single-symbol tree gives it.
//
func BuildCodeTable(root *Node) (CodeTable, error) {
	table := make(CodeTable)
	if root != nil && root.IsLeaf() {
		table[root.Symbol] = MakeCode(1, 0)
		return table, nil
	}
	if err := buildCodes(table, root, Code{}); err != nil {
		return nil, err
	}
	return table, nil
}

func buildCodes(table CodeTable, node *Node, hc Code) error {
	if node == nil {
		return nil
	}
	if node.IsLeaf() {
		table[node.Symbol] = hc
		return nil
	}
	if hc.Size == MaxCodeSize {
		return fmt.Errorf("%w: tree is deeper than %d", ErrCodeTooLong, MaxCodeSize)
	}
	if err := buildCodes(table, node.Zero, hc.Append(0)); err != nil {
		return err
	}
	return buildCodes(table, node.One, hc.Append(1))
}

// Lookup returns the Code for sym.
func (t CodeTable) Lookup(sym Symbol) (Code, bool) {
	hc, found := t[sym]
	return hc, found
}

// Symbols returns every Symbol in this CodeTable, in ascending order.
func (t CodeTable) Symbols() []Symbol {
	keys := make(bySymbol, 0, len(t))
	for sym := range t {
		keys = append(keys, sym)
	}
	keys.Sort()
	return keys
}

// PrefixFree returns true if no Code in this CodeTable is a prefix of
// another.
func (t CodeTable) PrefixFree() bool {
	syms := t.Symbols()
	for i, a := range syms {
		for _, b := range syms[i+1:] {
			ca, cb := t[a], t[b]
			if ca.HasPrefix(cb) || cb.HasPrefix(ca) {
				return false
			}
		}
	}
	return true
}

// Dump writes a programmer-readable debugging dump of this CodeTable to the
// given writer.
func (t CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	for _, sym := range t.Symbols() {
		fmt.Fprintf(&buf, "\tEncode(%v) = %s\n", sym, t[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
