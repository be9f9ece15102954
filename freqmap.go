package huf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	mathbits "math/bits"
	"sort"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// FrequencyMap maps each Symbol to its number of occurrences.
//
// A FrequencyMap produced by CountBytes, CountString, CountReader or
// ReadHeader always contains EndOfStream with a count of 1.
type FrequencyMap struct {
	counts map[Symbol]uint64
}

// NewFrequencyMap returns an empty FrequencyMap.
func NewFrequencyMap() *FrequencyMap {
	return &FrequencyMap{counts: make(map[Symbol]uint64)}
}

// CountBytes builds the FrequencyMap of p.
func CountBytes(p []byte) *FrequencyMap {
	fm := NewFrequencyMap()
	fm.addBytes(p)
	fm.finish()
	return fm
}

// CountString builds the FrequencyMap of s.  The result is identical to
// CountBytes([]byte(s)).
func CountString(s string) *FrequencyMap {
	fm := NewFrequencyMap()
	for i := 0; i < len(s); i++ {
		fm.add(s[i])
	}
	fm.finish()
	return fm
}

// CountReader builds the FrequencyMap of everything readable from r.
func CountReader(r io.Reader) (*FrequencyMap, error) {
	fm := NewFrequencyMap()
	br := bufio.NewReader(r)
	var buf [4096]byte
	for {
		n, err := br.Read(buf[:])
		fm.addBytes(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("huf: counting frequencies: %w", err)
		}
	}
	fm.finish()
	return fm, nil
}

func (fm *FrequencyMap) addBytes(p []byte) {
	for _, b := range p {
		fm.add(b)
	}
}

func (fm *FrequencyMap) add(b byte) {
	sym := Literal(b)
	if fm.ContainsKey(sym) {
		fm.Put(sym, fm.Get(sym)+1)
	} else {
		fm.Put(sym, 1)
	}
}

func (fm *FrequencyMap) finish() {
	fm.Put(EndOfStream, 1)
}

// ContainsKey returns true if sym has a count.
func (fm *FrequencyMap) ContainsKey(sym Symbol) bool {
	_, found := fm.counts[sym]
	return found
}

// Get returns the count of sym.  It panics if sym has no count.
func (fm *FrequencyMap) Get(sym Symbol) uint64 {
	count, found := fm.counts[sym]
	assert.Assertf(found, "Symbol %v is not in the FrequencyMap", sym)
	return count
}

// Put sets the count of sym, replacing any previous count.
func (fm *FrequencyMap) Put(sym Symbol, count uint64) {
	if fm.counts == nil {
		fm.counts = make(map[Symbol]uint64)
	}
	fm.counts[sym] = count
}

// Keys returns every Symbol with a count, in ascending order.
func (fm *FrequencyMap) Keys() []Symbol {
	keys := make(bySymbol, 0, len(fm.counts))
	for sym := range fm.counts {
		keys = append(keys, sym)
	}
	keys.Sort()
	return keys
}

// Len returns the number of Symbols with a count.
func (fm *FrequencyMap) Len() int {
	return len(fm.counts)
}

// Total returns the sum of all counts, saturating at math.MaxUint64.
func (fm *FrequencyMap) Total() uint64 {
	total, _ := fm.total()
	return total
}

func (fm *FrequencyMap) total() (uint64, bool) {
	var total uint64
	for _, count := range fm.counts {
		sum, carry := mathbits.Add64(total, count, 0)
		if carry != 0 {
			return ^uint64(0), false
		}
		total = sum
	}
	return total, true
}

// Validate checks that a tree can be built from this FrequencyMap: it must
// contain EndOfStream, only literal or EndOfStream keys, only positive counts,
// and its total must not overflow.
func (fm *FrequencyMap) Validate() error {
	if fm == nil || len(fm.counts) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidFrequencies)
	}
	if !fm.ContainsKey(EndOfStream) {
		return fmt.Errorf("%w: missing %v", ErrInvalidFrequencies, EndOfStream)
	}
	for _, sym := range fm.Keys() {
		if !sym.IsCodeable() {
			return fmt.Errorf("%w: %s symbol %v", ErrInvalidFrequencies, sym.Kind(), sym)
		}
		if fm.counts[sym] == 0 {
			return fmt.Errorf("%w: symbol %v has count 0", ErrInvalidFrequencies, sym)
		}
	}
	if _, ok := fm.total(); !ok {
		return fmt.Errorf("%w: total count overflows", ErrInvalidFrequencies)
	}
	return nil
}

// Equal returns true if both maps hold the same counts.  A nil map is only
// equal to another nil map.
func (fm *FrequencyMap) Equal(other *FrequencyMap) bool {
	if fm == nil || other == nil {
		return fm == other
	}
	if fm.Len() != other.Len() {
		return false
	}
	for sym, count := range fm.counts {
		if otherCount, found := other.counts[sym]; !found || otherCount != count {
			return false
		}
	}
	return true
}

// String returns the string representation of this FrequencyMap, e.g.
// "{'a':3, 'b':2, EOF:1}".
func (fm *FrequencyMap) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, sym := range fm.Keys() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(sym.String())
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatUint(fm.counts[sym], 10))
	}
	buf.WriteByte('}')
	return buf.String()
}

// Dump writes a programmer-readable debugging dump of this FrequencyMap to
// the given writer.
func (fm *FrequencyMap) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyMap{\n")
	fmt.Fprintf(&buf, "\tLen() = %d\n", fm.Len())
	fmt.Fprintf(&buf, "\tTotal() = %d\n", fm.Total())
	for _, sym := range fm.Keys() {
		fmt.Fprintf(&buf, "\tGet(%v) = %d\n", sym, fm.counts[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

var _ fmt.Stringer = (*FrequencyMap)(nil)

// type bySymbol {{{

type bySymbol []Symbol

func (list bySymbol) Sort() {
	sort.Sort(list)
}

func (list bySymbol) Len() int {
	return len(list)
}

func (list bySymbol) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list bySymbol) Less(i, j int) bool {
	return list[i] < list[j]
}

var _ sort.Interface = bySymbol(nil)

// }}}
