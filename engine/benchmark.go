package engine

import (
	"bytes"
	stdgzip "compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/FitrahHaque/gzip-engine/compressor/gzip"

	"github.com/jedib0t/go-pretty/v6/table"
	klauspostgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"
	"github.com/nuclio/errors"
	"golang.org/x/sync/errgroup"
)

type BenchmarkResult struct {
	File       string
	Compressor string
	InputSize  int
	OutputSize int
	Duration   time.Duration
}

// Ratio is the compressed size as a percentage of the input size.
func (r *BenchmarkResult) Ratio() float64 {
	if r.InputSize == 0 {
		return 0
	}
	return float64(r.OutputSize) / float64(r.InputSize) * 100
}

// Throughput is in input megabytes per second.
func (r *BenchmarkResult) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.InputSize) / (1 << 20) / r.Duration.Seconds()
}

type benchmarkCompressor struct {
	name     string
	compress func([]byte) ([]byte, error)
}

func (e *Engine) benchmarkCompressors() []benchmarkCompressor {
	return []benchmarkCompressor{
		{
			name: "gzip-engine",
			compress: func(data []byte) ([]byte, error) {
				return gzip.Compress(data, &gzip.Config{Flate: e.options.Flate})
			},
		},
		{
			name: "compress/gzip",
			compress: func(data []byte) ([]byte, error) {
				var buffer bytes.Buffer
				return finish(&buffer, stdgzip.NewWriter(&buffer), data)
			},
		},
		{
			name: "klauspost/gzip",
			compress: func(data []byte) ([]byte, error) {
				var buffer bytes.Buffer
				return finish(&buffer, klauspostgzip.NewWriter(&buffer), data)
			},
		},
		{
			name: "klauspost/pgzip",
			compress: func(data []byte) ([]byte, error) {
				var buffer bytes.Buffer
				return finish(&buffer, pgzip.NewWriter(&buffer), data)
			},
		},
	}
}

// Benchmark compresses each file with this engine and with the reference gzip
// encoders, checking that every output decodes back to the file. Files are
// processed in parallel; the encoders for one file run one after the other.
func (e *Engine) Benchmark(ctx context.Context, files []string) ([]*BenchmarkResult, error) {
	compressors := e.benchmarkCompressors()
	results := make([][]*BenchmarkResult, len(files))

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.SetLimit(runtime.NumCPU())
	for fileIndex, file := range files {
		errGroup.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, "Failed to read %s", file)
			}

			for _, compressor := range compressors {
				if err := ctx.Err(); err != nil {
					return err
				}

				result, err := runBenchmark(compressor, data)
				if err != nil {
					return errors.Wrapf(err, "%s failed on %s", compressor.name, file)
				}
				result.File = file
				results[fileIndex] = append(results[fileIndex], result)

				e.logger.DebugWith("Benchmarked",
					"file", file,
					"compressor", compressor.name,
					"outputSize", result.OutputSize,
					"duration", result.Duration.String())
			}
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	var flattened []*BenchmarkResult
	for _, fileResults := range results {
		flattened = append(flattened, fileResults...)
	}
	return flattened, nil
}

// RenderBenchmark writes results as a table.
func RenderBenchmark(w io.Writer, results []*BenchmarkResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"File", "Compressor", "Input", "Output", "Ratio", "Duration", "MB/s"})
	for _, result := range results {
		tw.AppendRow(table.Row{
			result.File,
			result.Compressor,
			result.InputSize,
			result.OutputSize,
			fmt.Sprintf("%.2f%%", result.Ratio()),
			result.Duration.Round(time.Microsecond).String(),
			fmt.Sprintf("%.1f", result.Throughput()),
		})
	}
	tw.Render()
}

func runBenchmark(compressor benchmarkCompressor, data []byte) (*BenchmarkResult, error) {
	started := time.Now()
	compressed, err := compressor.compress(data)
	if err != nil {
		return nil, err
	}
	duration := time.Since(started)

	reader, err := stdgzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrap(err, "Output is not a gzip stream")
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to decompress output")
	}
	if !bytes.Equal(data, decompressed) {
		return nil, errors.New("Output does not decompress to the input")
	}

	return &BenchmarkResult{
		Compressor: compressor.name,
		InputSize:  len(data),
		OutputSize: len(compressed),
		Duration:   duration,
	}, nil
}

func finish(buffer *bytes.Buffer, writer io.WriteCloser, data []byte) ([]byte, error) {
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
