// Package archive compresses and decompresses whole files in the ".huf"
// format.
package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/chronos-tachyon/huf"
)

var (
	// ErrNotCompressed is returned by Decompress for a path without the
	// compressed suffix.
	ErrNotCompressed = errors.New("archive: not a compressed file name")

	// ErrOutputExists is returned when the output file already exists and
	// overwriting is disabled.
	ErrOutputExists = errors.New("archive: output file exists")
)

// Options control file naming and output.
type Options struct {
	// Suffix is appended by Compress and stripped by Decompress.
	Suffix string

	// Marker is inserted before the extension by Decompress.
	Marker string

	// Overwrite allows replacing existing output files.
	Overwrite bool

	// Trace fills Result.Trace.
	Trace bool
}

// DefaultOptions returns the standard ".huf" / "_unc" naming.
func DefaultOptions() Options {
	return Options{Suffix: ".huf", Marker: "_unc"}
}

// Result describes one completed Compress or Decompress call.
type Result struct {
	Input       string
	Output      string
	InputBytes  int64
	OutputBytes int64

	// Bits is the number of meaningful payload bits, excluding padding.
	Bits int64

	// Symbols is the number of entries in the frequency map.
	Symbols int

	// Trace is the payload as a string of '0' and '1' characters after
	// Compress, or the decoded text after Decompress.  It is only filled
	// in when Options.Trace is set.
	Trace string
}

// Codec runs whole-file compression and decompression.  It holds no mutable
// state and may be used concurrently; every call builds its own tree.
type Codec struct {
	fs     afero.Fs
	logger zerolog.Logger
	opts   Options
}

// New returns a Codec operating on fs.
func New(fs afero.Fs, logger zerolog.Logger, opts Options) *Codec {
	defaults := DefaultOptions()
	if opts.Suffix == "" {
		opts.Suffix = defaults.Suffix
	}
	if opts.Marker == "" {
		opts.Marker = defaults.Marker
	}
	return &Codec{fs: fs, logger: logger, opts: opts}
}

// Compress compresses path into path+Suffix and returns what it did.
func (c *Codec) Compress(path string) (*Result, error) {
	logger := c.logger.With().Str("input", path).Logger()
	res, err := c.compressFile(logger, path)
	if err != nil {
		return nil, fmt.Errorf("archive: compressing %s: %w", path, err)
	}

	logger.Info().
		Str("output", res.Output).
		Int64("bytes_in", res.InputBytes).
		Int64("bytes_out", res.OutputBytes).
		Int64("bits", res.Bits).
		Int("symbols", res.Symbols).
		Msg("compressed")
	return res, nil
}

func (c *Codec) compressFile(logger zerolog.Logger, path string) (*Result, error) {
	output := CompressedName(path, c.opts.Suffix)

	in, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	// Both passes read the same handle.
	logger.Debug().Msg("counting frequencies")
	cr := &countingReader{r: in}
	fm, err := huf.CountReader(cr)
	if err != nil {
		return nil, err
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	out, err := c.create(output)
	if err != nil {
		return nil, err
	}

	res := &Result{Input: path, Output: output, InputBytes: cr.n, Symbols: fm.Len()}
	outputBytes, err := c.compress(logger, fm, in, out, res)
	if err == nil {
		err = out.Close()
	} else {
		out.Close()
	}
	if err != nil {
		c.remove(logger, output)
		return nil, err
	}
	res.OutputBytes = outputBytes
	return res, nil
}

// Decompress decompresses path, which must end with Suffix, into the name
// given by DecompressedName, and returns what it did.
func (c *Codec) Decompress(path string) (*Result, error) {
	logger := c.logger.With().Str("input", path).Logger()
	output, ok := DecompressedName(path, c.opts.Suffix, c.opts.Marker)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not end with %q", ErrNotCompressed, path, c.opts.Suffix)
	}

	in, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: decompressing %s: %w", path, err)
	}
	defer in.Close()

	out, err := c.create(output)
	if err != nil {
		return nil, fmt.Errorf("archive: decompressing %s: %w", path, err)
	}

	res := &Result{Input: path, Output: output}
	cr := &countingReader{r: in}
	outputBytes, err := c.decompress(logger, cr, out, res)
	if err == nil {
		err = out.Close()
	} else {
		out.Close()
	}
	if err != nil {
		c.remove(logger, output)
		return nil, fmt.Errorf("archive: decompressing %s: %w", path, err)
	}
	res.InputBytes = cr.n
	res.OutputBytes = outputBytes

	logger.Info().
		Str("output", output).
		Int64("bytes_in", res.InputBytes).
		Int64("bytes_out", res.OutputBytes).
		Int("symbols", res.Symbols).
		Msg("decompressed")
	return res, nil
}

// CompressBytes returns the ".huf" encoding of data.
func (c *Codec) CompressBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	res := &Result{InputBytes: int64(len(data))}
	if _, err := c.compress(c.logger, huf.CountBytes(data), bytes.NewReader(data), &buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressBytes reverses CompressBytes.
func (c *Codec) DecompressBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.decompress(c.logger, bytes.NewReader(data), &buf, &Result{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) compress(logger zerolog.Logger, fm *huf.FrequencyMap, in io.Reader, out io.Writer, res *Result) (int64, error) {
	logger.Debug().Int("symbols", fm.Len()).Uint64("total", fm.Total()).Msg("building tree")
	root, err := huf.BuildTree(fm)
	if err != nil {
		return 0, err
	}
	defer func() {
		logger.Debug().Int("nodes", root.Release()).Msg("released tree")
	}()

	table, err := huf.BuildCodeTable(root)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(out)
	headerBytes, err := huf.WriteHeader(bw, fm)
	if err != nil {
		return 0, err
	}
	logger.Debug().Int64("bytes", headerBytes).Msg("wrote header")

	enc := huf.NewEncoder(table, bw)
	enc.Trace(c.opts.Trace)
	if _, err := io.Copy(enc, in); err != nil {
		return 0, fmt.Errorf("encoding: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("flushing output: %w", err)
	}

	res.Bits = enc.BitCount()
	res.Trace = enc.TraceString()
	return headerBytes + (res.Bits+7)/8, nil
}

func (c *Codec) decompress(logger zerolog.Logger, in io.Reader, out io.Writer, res *Result) (int64, error) {
	br := huf.NewHeaderReader(in)
	fm, err := huf.ReadHeader(br)
	if err != nil {
		return 0, err
	}
	res.Symbols = fm.Len()
	logger.Debug().Int("symbols", fm.Len()).Uint64("total", fm.Total()).Msg("read header")

	root, err := huf.BuildTree(fm)
	if err != nil {
		return 0, err
	}
	defer func() {
		logger.Debug().Int("nodes", root.Release()).Msg("released tree")
	}()

	cw := &countingWriter{w: out}
	dec := huf.NewDecoder(root, br)
	dec.Trace(c.opts.Trace)
	if err := dec.Decode(cw); err != nil {
		return cw.n, err
	}
	res.Trace = dec.TraceString()

	// The header's counts say exactly how many bytes must come out.
	if want := fm.Total() - 1; uint64(cw.n) != want {
		return cw.n, fmt.Errorf("%w: decoded %d bytes, header promises %d", huf.ErrCorrupt, cw.n, want)
	}
	return cw.n, nil
}

func (c *Codec) create(path string) (afero.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !c.opts.Overwrite {
		flags |= os.O_EXCL
	}
	f, err := c.fs.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (c *Codec) remove(logger zerolog.Logger, path string) {
	if err := c.fs.Remove(path); err != nil {
		logger.Warn().Err(err).Str("output", path).Msg("failed to remove partial output")
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
