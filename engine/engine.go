package engine

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/FitrahHaque/gzip-engine/compressor/flate"
	"github.com/FitrahHaque/gzip-engine/compressor/gzip"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// StdinName stands for standard input in a file list.
const StdinName = "-"

var Algorithms = [...]string{
	"gzip",
	"deflate",
}

var extensions = map[string]string{
	"gzip":    ".gz",
	"deflate": ".deflate",
}

type blockWriter interface {
	io.WriteCloser
	Stats() []flate.BlockStats
}

var writers = map[string]func(io.Writer, *flate.Config, time.Time) (blockWriter, error){
	"gzip": func(w io.Writer, config *flate.Config, modified time.Time) (blockWriter, error) {
		writer, err := gzip.NewWriter(w, &gzip.Config{MTime: modified, Flate: config})
		if err != nil {
			return nil, err
		}
		return writer, nil
	},
	"deflate": func(w io.Writer, config *flate.Config, _ time.Time) (blockWriter, error) {
		writer, err := flate.NewWriter(w, config)
		if err != nil {
			return nil, err
		}
		return writer, nil
	},
}

type Options struct {
	Algorithm string
	Flate     *flate.Config

	// remove each input file once it is compressed
	Delete bool

	// write to standard output instead of <file><extension>
	Stdout bool

	// show a progress bar on standard error while reading files
	Progress bool
}

func DefaultOptions() *Options {
	return &Options{
		Algorithm: "gzip",
		Flate:     flate.DefaultConfig(),
	}
}

type Result struct {
	Input      string
	Output     string
	Algorithm  string
	InputSize  int64
	OutputSize int64
	Blocks     int
	Duration   time.Duration
}

// Ratio is the compressed size as a percentage of the input size.
func (r *Result) Ratio() float64 {
	if r.InputSize == 0 {
		return 0
	}
	return float64(r.OutputSize) / float64(r.InputSize) * 100
}

type Engine struct {
	logger  logger.Logger
	options *Options
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func NewEngine(parentLogger logger.Logger, options *Options) (*Engine, error) {
	if options == nil {
		options = DefaultOptions()
	}
	optionsCopy := *options
	options = &optionsCopy

	if _, found := writers[options.Algorithm]; !found {
		return nil, errors.Errorf("Unknown algorithm %q, choices include: %s",
			options.Algorithm,
			strings.Join(Algorithms[:], ", "))
	}
	if options.Flate == nil {
		options.Flate = flate.DefaultConfig()
	}
	if err := options.Flate.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid compression options")
	}

	flateConfig := *options.Flate
	flateConfig.Logger = parentLogger
	options.Flate = &flateConfig

	return &Engine{
		logger:  parentLogger,
		options: options,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}, nil
}

// Compress streams input through the configured algorithm into output.
func (e *Engine) Compress(input io.Reader, output io.Writer, modified time.Time) (*Result, error) {
	counter := &countingWriter{writer: output}
	writer, err := writers[e.options.Algorithm](counter, e.options.Flate, modified)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create writer")
	}

	started := time.Now()
	read, err := io.Copy(writer, input)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to compress")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "Failed to finish compression")
	}

	return &Result{
		Algorithm:  e.options.Algorithm,
		InputSize:  read,
		OutputSize: counter.written,
		Blocks:     len(writer.Stats()),
		Duration:   time.Since(started),
	}, nil
}

// CompressFiles compresses every file in turn, stopping at the first failure.
// StdinName reads standard input and writes standard output.
func (e *Engine) CompressFiles(files []string) ([]*Result, error) {
	var results []*Result
	for _, file := range files {
		result, err := e.compressFile(file)
		if err != nil {
			return results, errors.Wrapf(err, "Failed to compress %s", file)
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Engine) compressFile(path string) (*Result, error) {
	if path == StdinName {
		result, err := e.Compress(e.stdin, e.stdout, time.Time{})
		if err != nil {
			return nil, err
		}
		result.Input, result.Output = "stdin", "stdout"
		return result, nil
	}

	input, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to open input")
	}
	defer input.Close() // nolint: errcheck

	info, err := input.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to stat input")
	}
	if info.IsDir() {
		return nil, errors.New("Input is a directory")
	}

	var reader io.Reader = input
	if e.options.Progress {
		bar := pb.New64(info.Size())
		bar.Set(pb.Bytes, true)
		bar.SetWriter(e.stderr)
		bar.Start()
		defer bar.Finish()
		reader = bar.NewProxyReader(input)
	}

	outputPath := "stdout"
	var output io.Writer = e.stdout
	var outputFile *os.File
	if !e.options.Stdout {
		outputPath = path + extensions[e.options.Algorithm]
		outputFile, err = os.Create(outputPath)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create output")
		}
		defer outputFile.Close() // nolint: errcheck
		output = outputFile
	}

	e.logger.DebugWith("Compressing file",
		"input", path,
		"output", outputPath,
		"algorithm", e.options.Algorithm,
		"size", info.Size())

	result, err := e.Compress(reader, output, info.ModTime())
	if err != nil {
		return nil, err
	}
	result.Input, result.Output = path, outputPath

	if outputFile != nil {
		if err := outputFile.Close(); err != nil {
			return nil, errors.Wrap(err, "Failed to close output")
		}
	}

	if e.options.Delete {
		if err := os.Remove(path); err != nil {
			return nil, errors.Wrap(err, "Failed to delete input")
		}
	}

	e.logger.InfoWith("Compressed file",
		"input", path,
		"output", outputPath,
		"inputSize", result.InputSize,
		"outputSize", result.OutputSize,
		"blocks", result.Blocks,
		"duration", result.Duration.String())
	return result, nil
}

// PrintSummary writes a human readable report of results to w.
func PrintSummary(w io.Writer, results []*Result) {
	bold := color.New(color.Bold)
	for _, result := range results {
		bold.Fprintf(w, "%s -> %s (%s)\n", result.Input, result.Output, result.Algorithm) // nolint: errcheck
		fmt.Fprintf(w, "Original size (in bytes): %v\n", result.InputSize)                // nolint: errcheck
		fmt.Fprintf(w, "Compressed size (in bytes): %v\n", result.OutputSize)             // nolint: errcheck
		fmt.Fprintf(w, "Compression ratio: %s\n", ratioColor(result.Ratio()))             // nolint: errcheck
	}
}

func ratioColor(ratio float64) string {
	text := fmt.Sprintf("%.2f%%", ratio)
	switch {
	case ratio == 0 || ratio > 100:
		return color.RedString(text)
	case ratio > 60:
		return color.YellowString(text)
	}
	return color.GreenString(text)
}

type countingWriter struct {
	writer  io.Writer
	written int64
}

func (w *countingWriter) Write(data []byte) (int, error) {
	n, err := w.writer.Write(data)
	w.written += int64(n)
	return n, err
}
