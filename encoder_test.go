package huf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	type testRow struct {
		input string
		trace string
		bytes []byte
	}

	testData := [...]testRow{
		{input: "aaabbc", trace: "0001010110111", bytes: []byte{0x15, 0xb8}},
		{input: "", trace: "0", bytes: []byte{0x00}},
		{input: "z", trace: "01", bytes: []byte{0x40}},
		{input: "zzzzzzz", trace: "11111110", bytes: []byte{0xfe}},
	}
	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			_, table := mustBuildCodeTable(t, row.input)

			var buf bytes.Buffer
			trace, numBits, err := Encode(strings.NewReader(row.input), table, &buf)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if trace != row.trace {
				t.Errorf("wrong trace:\n\texpect: %s\n\tactual: %s", row.trace, trace)
			}
			if numBits != int64(len(row.trace)) {
				t.Errorf("expected %d bits, got %d", len(row.trace), numBits)
			}
			if !bytes.Equal(buf.Bytes(), row.bytes) {
				t.Errorf("wrong bytes:\n\texpect: %#v\n\tactual: %#v", row.bytes, buf.Bytes())
			}
		})
	}
}

func TestEncode_DryRun(t *testing.T) {
	for _, input := range testInputs() {
		_, table := mustBuildCodeTable(t, input)

		var buf bytes.Buffer
		expectTrace, expectBits, err := Encode(strings.NewReader(input), table, &buf)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		actualTrace, actualBits, err := Encode(strings.NewReader(input), table, nil)
		if err != nil {
			t.Fatalf("dry-run Encode failed: %v", err)
		}

		if expectTrace != actualTrace || expectBits != actualBits {
			t.Errorf("%q: dry run differs: %d bits vs %d bits", input, actualBits, expectBits)
		}
		if want := (expectBits + 7) / 8; int64(buf.Len()) != want {
			t.Errorf("%q: expected %d bytes for %d bits, got %d", input, want, expectBits, buf.Len())
		}
	}
}

func TestEncoder_MissingCode(t *testing.T) {
	_, table := mustBuildCodeTable(t, "abc")

	var buf bytes.Buffer
	e := NewEncoder(table, &buf)
	e.Trace(true)
	n, err := e.Write([]byte("abd"))
	if !errors.Is(err, ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 bytes consumed, got %d", n)
	}
	if want := table['a'].Size + table['b'].Size; e.BitCount() != int64(want) {
		t.Errorf("expected %d bits, got %d", want, e.BitCount())
	}
	if want := table['a'].Text() + table['b'].Text(); e.TraceString() != want {
		t.Errorf("expected trace %q, got %q", want, e.TraceString())
	}
}

func TestEncoder_CloseTwice(t *testing.T) {
	_, table := mustBuildCodeTable(t, "abc")

	var buf bytes.Buffer
	e := NewEncoder(table, &buf)
	if _, err := e.Write([]byte("cab")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	size, bits := buf.Len(), e.BitCount()
	if err := e.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if buf.Len() != size || e.BitCount() != bits {
		t.Errorf("second Close emitted more output")
	}
	if e.TraceString() != "" {
		t.Errorf("expected no trace when tracing is disabled")
	}
}

func TestEncoder_WriteError(t *testing.T) {
	_, table := mustBuildCodeTable(t, "abc")
	boom := errors.New("boom")

	e := NewEncoder(table, failingWriter{boom})
	_, err := e.Write(bytes.Repeat([]byte("abc"), 4096))
	if err == nil {
		err = e.Close()
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
