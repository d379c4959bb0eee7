package flate

import (
	"io"
	"sync"

	"github.com/FitrahHaque/gzip-engine/compressor/bitstream"
	"github.com/FitrahHaque/gzip-engine/compressor/lz"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

const DefaultBufferSize = 1 << 20

var ErrClosed = errors.New("flate: write to closed writer")

type Config struct {

	// input collected before it is encoded as one block
	BufferSize int
	Match      lz.Config

	// optional, receives per-block statistics at debug level
	Logger logger.Logger
}

func DefaultConfig() *Config {
	return &Config{
		BufferSize: DefaultBufferSize,
		Match:      lz.DefaultConfig(),
	}
}

func (c *Config) Validate() error {
	if c.BufferSize < 1 {
		return errors.Errorf("flate: buffer size must be positive, got %d", c.BufferSize)
	}
	if err := c.Match.Validate(); err != nil {
		return errors.Wrap(err, "flate: invalid match config")
	}
	return nil
}

// Writer encodes everything written to it as a raw DEFLATE stream of dynamic
// Huffman blocks, one block per BufferSize bytes of input. The stream is only
// complete after Close.
type Writer struct {
	lock       sync.Mutex
	config     Config
	output     io.Writer
	symbolizer *lz.Symbolizer
	stream     *bitstream.Accumulator
	buffer     []byte
	stats      []BlockStats
	closed     bool
	err        error
}

// NewWriter returns a Writer emitting to w. A nil config means DefaultConfig.
func NewWriter(w io.Writer, config *Config) (*Writer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "Failed to create flate writer")
	}

	return &Writer{
		config:     *config,
		output:     w,
		symbolizer: lz.NewSymbolizer(config.Match),
		stream:     bitstream.NewAccumulator(),
		buffer:     make([]byte, 0, config.BufferSize),
	}, nil
}

// Write buffers data. A full buffer is encoded once more input arrives, so
// input that ends exactly on a buffer boundary still ends in a non-empty final
// block.
func (w *Writer) Write(data []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return 0, ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}

	written := 0
	for len(data) > 0 {
		if len(w.buffer) == w.config.BufferSize {
			if err := w.writeBlock(false); err != nil {
				return written, err
			}
		}
		n := min(w.config.BufferSize-len(w.buffer), len(data))
		w.buffer = append(w.buffer, data[:n]...)
		data = data[n:]
		written += n
	}
	return written, nil
}

// Close encodes the buffered input as the final block and writes out the last
// partial byte. It does not close the underlying writer. Closing twice is a
// no-op.
func (w *Writer) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return w.err
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}
	return w.writeBlock(true)
}

// Stats returns the statistics of the blocks written so far.
func (w *Writer) Stats() []BlockStats {
	w.lock.Lock()
	defer w.lock.Unlock()

	return append([]BlockStats(nil), w.stats...)
}

func (w *Writer) writeBlock(final bool) error {
	stats := writeBlock(w.stream, w.symbolizer.Symbolize(w.buffer), final)
	w.buffer = w.buffer[:0]
	w.stats = append(w.stats, stats)

	if w.config.Logger != nil {
		w.config.Logger.DebugWith("Wrote block",
			"index", len(w.stats)-1,
			"final", stats.Final,
			"input", stats.Input,
			"symbols", stats.Symbols,
			"references", stats.References,
			"bits", stats.Bits)
	}

	var completed []byte
	if final {
		completed = w.stream.Flush()
	} else {
		completed = w.stream.Drain()
	}
	if len(completed) == 0 {
		return nil
	}
	if _, err := w.output.Write(completed); err != nil {
		w.err = errors.Wrap(err, "Failed to write compressed block")
		return w.err
	}
	return nil
}

// Compress encodes data as a single final block.
func Compress(data []byte, config *Config) ([]byte, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Match.Validate(); err != nil {
		return nil, errors.Wrap(err, "Failed to compress")
	}

	stream := bitstream.NewAccumulator()
	stats := writeBlock(stream, lz.Symbolize(data, config.Match), true)
	if config.Logger != nil {
		config.Logger.DebugWith("Compressed",
			"input", stats.Input,
			"symbols", stats.Symbols,
			"references", stats.References,
			"bits", stats.Bits)
	}
	return stream.Flush(), nil
}
