package gzip

import (
	"bytes"
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"
	"sync"
	"time"

	"github.com/FitrahHaque/gzip-engine/compressor/flate"

	"github.com/nuclio/errors"
)

const (
	headerSize  = 10
	trailerSize = 8
)

type Config struct {

	// stored in the header; the zero time is written as 0 (no timestamp)
	MTime time.Time

	// nil means flate.DefaultConfig
	Flate *flate.Config
}

// Writer wraps a flate.Writer in a gzip member: a fixed 10-byte header, the
// DEFLATE stream, then the CRC-32 and size of the uncompressed input.
type Writer struct {
	lock   sync.Mutex
	output io.Writer
	flate  *flate.Writer
	crc    hash.Hash32
	size   uint32
	closed bool
}

// NewWriter writes the gzip header to w and returns a Writer for the body.
func NewWriter(w io.Writer, config *Config) (*Writer, error) {
	if config == nil {
		config = &Config{}
	}

	flateWriter, err := flate.NewWriter(w, config.Flate)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create gzip writer")
	}

	if _, err := w.Write(header(config.MTime)); err != nil {
		return nil, errors.Wrap(err, "Failed to write gzip header")
	}

	return &Writer{
		output: w,
		flate:  flateWriter,
		crc:    crc32.NewIEEE(),
	}, nil
}

func (w *Writer) Write(data []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return 0, flate.ErrClosed
	}

	n, err := w.flate.Write(data)
	w.crc.Write(data[:n])
	w.size += uint32(n)
	return n, err
}

// Close finishes the DEFLATE stream and writes the trailer. The underlying
// writer is left open.
func (w *Writer) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.flate.Close(); err != nil {
		return errors.Wrap(err, "Failed to finish deflate stream")
	}

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[0:4], w.crc.Sum32())
	binary.LittleEndian.PutUint32(trailer[4:8], w.size)
	if _, err := w.output.Write(trailer[:]); err != nil {
		return errors.Wrap(err, "Failed to write gzip trailer")
	}
	return nil
}

// Stats returns the statistics of the DEFLATE blocks written so far.
func (w *Writer) Stats() []flate.BlockStats {
	return w.flate.Stats()
}

// Compress returns data as a complete gzip member.
func Compress(data []byte, config *Config) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := NewWriter(&buffer, config)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, errors.Wrap(err, "Failed to compress")
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func header(modified time.Time) []byte {
	var mtime uint32
	if !modified.IsZero() {
		mtime = uint32(modified.Unix())
	}

	out := []byte{
		0x1f, 0x8b, // ID1, ID2
		0x08,       // CM = deflate
		0x00,       // FLG
		0, 0, 0, 0, // MTIME
		0x00, // XFL
		0xff, // OS = unknown
	}
	binary.LittleEndian.PutUint32(out[4:8], mtime)
	return out
}
