package huf

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/icza/huffman"
)

func mustBuildCodeTable(t *testing.T, input string) (*FrequencyMap, CodeTable) {
	t.Helper()
	fm := CountString(input)
	root := mustBuildTree(t, fm)
	defer root.Release()
	table, err := BuildCodeTable(root)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	return fm, table
}

func TestCode(t *testing.T) {
	type testRow struct {
		text string
		size uint8
		bits uint64
	}

	testData := [...]testRow{
		{text: "", size: 0, bits: 0},
		{text: "0", size: 1, bits: 0},
		{text: "1", size: 1, bits: 1},
		{text: "110", size: 3, bits: 6},
		{text: "0001", size: 4, bits: 1},
		{text: strings.Repeat("1", 64), size: 64, bits: ^uint64(0)},
	}
	for _, row := range testData {
		t.Run(row.text, func(t *testing.T) {
			hc, err := ParseCode(row.text)
			if err != nil {
				t.Fatalf("ParseCode failed: %v", err)
			}
			if hc != MakeCode(row.size, row.bits) {
				t.Errorf("expected {%d, %#x}, got {%d, %#x}", row.size, row.bits, hc.Size, hc.Bits)
			}
			if hc.Text() != row.text {
				t.Errorf("expected text %q, got %q", row.text, hc.Text())
			}
			for i := uint8(0); i < hc.Size; i++ {
				if want := uint(row.text[i] - '0'); hc.Bit(i) != want {
					t.Errorf("bit %d: expected %d, got %d", i, want, hc.Bit(i))
				}
			}
		})
	}

	if _, err := ParseCode("012"); err == nil {
		t.Errorf("expected error for invalid bit")
	}
	if _, err := ParseCode(strings.Repeat("0", 65)); !errors.Is(err, ErrCodeTooLong) {
		t.Errorf("expected ErrCodeTooLong, got %v", err)
	}
}

func TestCode_HasPrefix(t *testing.T) {
	code := func(s string) Code {
		hc, err := ParseCode(s)
		if err != nil {
			t.Fatal(err)
		}
		return hc
	}
	if !code("1101").HasPrefix(code("11")) {
		t.Errorf("expected 11 to prefix 1101")
	}
	if code("1101").HasPrefix(code("10")) {
		t.Errorf("expected 10 not to prefix 1101")
	}
	if code("11").HasPrefix(code("110")) {
		t.Errorf("expected a longer code never to be a prefix")
	}
}

func TestBuildCodeTable(t *testing.T) {
	fm := NewFrequencyMap()
	for sym, count := range []uint64{5, 9, 12, 13, 16, 45} {
		fm.Put(Symbol(sym), count)
	}
	fm.Put(EndOfStream, 1)

	root := mustBuildTree(t, fm)
	table, err := BuildCodeTable(root)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}

	expectDump := strings.Join([]string{
		"CodeTable{\n",
		"\tEncode(0x00) = \"11001\"\n",
		"\tEncode(0x01) = \"1101\"\n",
		"\tEncode(0x02) = \"100\"\n",
		"\tEncode(0x03) = \"101\"\n",
		"\tEncode(0x04) = \"111\"\n",
		"\tEncode(0x05) = \"0\"\n",
		"\tEncode(EOF) = \"11000\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = table.Dump(&buf)
	actualDump := buf.String()
	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}
}

func TestBuildCodeTable_Scenarios(t *testing.T) {
	type testRow struct {
		input string
		codes map[Symbol]string
	}

	testData := [...]testRow{
		{
			input: "aaabbc",
			codes: map[Symbol]string{'a': "0", 'b': "10", 'c': "110", EndOfStream: "111"},
		},
		{
			input: "",
			codes: map[Symbol]string{EndOfStream: "0"},
		},
		{
			input: "z",
			codes: map[Symbol]string{'z': "0", EndOfStream: "1"},
		},
	}
	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			_, table := mustBuildCodeTable(t, row.input)
			if len(table) != len(row.codes) {
				t.Errorf("expected %d codes, got %d", len(row.codes), len(table))
			}
			for sym, text := range row.codes {
				hc, found := table.Lookup(sym)
				if !found {
					t.Errorf("no code for %v", sym)
					continue
				}
				if hc.Text() != text {
					t.Errorf("%v: expected %q, got %q", sym, text, hc.Text())
				}
			}
		})
	}
}

func TestBuildCodeTable_LeafRoot(t *testing.T) {
	table, err := BuildCodeTable(&Node{Symbol: EndOfStream, Count: 1})
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	if hc := table[EndOfStream]; hc.Text() != "0" {
		t.Errorf("expected \"0\", got %s", hc)
	}

	table, err = BuildCodeTable(nil)
	if err != nil || len(table) != 0 {
		t.Errorf("expected empty table, got %v, %v", table, err)
	}
}

func TestBuildCodeTable_TooDeep(t *testing.T) {
	// A right-leaning chain of 66 internal nodes puts its deepest leaves
	// below bit 64.
	root := &Node{Symbol: EndOfStream, Count: 1}
	for i := 0; i < 66; i++ {
		root = &Node{
			Symbol: Internal,
			Count:  root.Count + 1,
			Zero:   &Node{Symbol: Literal(byte(i)), Count: 1},
			One:    root,
		}
	}
	if _, err := BuildCodeTable(root); !errors.Is(err, ErrCodeTooLong) {
		t.Errorf("expected ErrCodeTooLong, got %v", err)
	}
}

func TestCodeTable_Properties(t *testing.T) {
	inputs := append(testInputs(), randomInputs(10)...)
	for _, input := range inputs {
		fm, table := mustBuildCodeTable(t, input)

		if len(table) != fm.Len() {
			t.Errorf("%q: expected %d codes, got %d", input, fm.Len(), len(table))
		}
		if !table.PrefixFree() {
			t.Errorf("%q: table is not prefix-free", input)
		}

		// A more frequent symbol never gets a longer code.
		syms := table.Symbols()
		for _, a := range syms {
			for _, b := range syms {
				if fm.Get(a) > fm.Get(b) && table[a].Size > table[b].Size {
					t.Errorf("%q: %v (count %d) has %s, longer than %v (count %d) with %s",
						input, a, fm.Get(a), table[a], b, fm.Get(b), table[b])
				}
			}
		}
	}
}

func TestCodeTable_Optimal(t *testing.T) {
	// Every Huffman tree for the same counts has the same weighted length,
	// so an independent implementation must agree regardless of tie-breaks.
	inputs := append(testInputs(), randomInputs(10)...)
	for _, input := range inputs {
		fm, table := mustBuildCodeTable(t, input)
		if fm.Len() < 2 {
			continue
		}

		var actual uint64
		for _, sym := range fm.Keys() {
			actual += fm.Get(sym) * uint64(table[sym].Size)
		}

		if expect := oracleWeightedLength(fm); expect != actual {
			t.Errorf("%q: expected weighted length %d, got %d", input, expect, actual)
		}
	}
}

func TestOracleWeightedLength(t *testing.T) {
	type testRow struct {
		input  string
		expect uint64
	}

	testData := []testRow{
		{"aaabbc", 13},
		{"ab", 5},
		{"z", 2},
	}

	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			actual := oracleWeightedLength(CountString(row.input))
			if actual != row.expect {
				t.Errorf("wrong output:\n\texpect: %d\n\tactual: %d", row.expect, actual)
			}
		})
	}
}

// oracleWeightedLength returns sum(count × code size) for the tree that
// icza/huffman builds from fm.
func oracleWeightedLength(fm *FrequencyMap) uint64 {
	leaves := make([]*huffman.Node, 0, fm.Len())
	for _, sym := range fm.Keys() {
		leaves = append(leaves, &huffman.Node{Value: huffman.ValueType(sym), Count: int(fm.Get(sym))})
	}

	// Build reorders and overwrites the slice it is given.
	huffman.Build(append([]*huffman.Node(nil), leaves...))

	var total uint64
	for _, leaf := range leaves {
		_, size := leaf.Code()
		total += uint64(leaf.Count) * uint64(size)
	}
	return total
}

func randomInputs(n int) []string {
	rng := rand.New(rand.NewSource(1))
	out := make([]string, n)
	for i := range out {
		// Skewed distributions give trees of varied depth.
		buf := make([]byte, 1+rng.Intn(4096))
		alphabet := 1 + rng.Intn(256)
		for j := range buf {
			buf[j] = byte(rng.Intn(1 + rng.Intn(alphabet)))
		}
		out[i] = string(buf)
	}
	return out
}
