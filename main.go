package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/FitrahHaque/gzip-engine/compressor/flate"
	"github.com/FitrahHaque/gzip-engine/engine"

	"github.com/fatih/color"
	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	nucliozap "github.com/nuclio/zap"
	"github.com/spf13/cobra"
)

type rootCommandeer struct {
	cmd            *cobra.Command
	loggerInstance logger.Logger
	verbose        bool
}

func newRootCommandeer() *rootCommandeer {
	commandeer := &rootCommandeer{}

	cmd := &cobra.Command{
		Use:           "gzip-engine [command]",
		Short:         "DEFLATE and gzip compressor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&commandeer.verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(
		newCompressCommandeer(commandeer).cmd,
		newBenchmarkCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd
	return commandeer
}

func (rc *rootCommandeer) initialize() error {
	loggerLevel := nucliozap.InfoLevel
	if rc.verbose {
		loggerLevel = nucliozap.DebugLevel
	}

	// logs go to stderr so compressed output can be piped from stdout
	loggerInstance, err := nucliozap.NewNuclioZapCmd("gzip-engine",
		loggerLevel,
		nucliozap.NewRedactor(os.Stderr))
	if err != nil {
		return errors.Wrap(err, "Failed to create logger")
	}

	rc.loggerInstance = loggerInstance
	return nil
}

type compressCommandeer struct {
	*rootCommandeer
	cmd         *cobra.Command
	options     *engine.Options
	showSummary bool
}

func newCompressCommandeer(rootCommandeer *rootCommandeer) *compressCommandeer {
	commandeer := &compressCommandeer{
		rootCommandeer: rootCommandeer,
		options:        engine.DefaultOptions(),
	}

	cmd := &cobra.Command{
		Use:   "compress [file[,file...]] ...",
		Short: "Compress files, or standard input when no file or \"-\" is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := splitFiles(args)
			if len(files) == 0 {
				files = []string{engine.StdinName}
			}

			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			engineInstance, err := engine.NewEngine(rootCommandeer.loggerInstance, commandeer.options)
			if err != nil {
				return errors.Wrap(err, "Failed to create engine")
			}

			results, err := engineInstance.CompressFiles(files)
			if commandeer.showSummary && !commandeer.options.Stdout && files[0] != engine.StdinName {
				engine.PrintSummary(os.Stderr, results)
			}
			return err
		},
	}

	addCompressionFlags(cmd, commandeer.options)
	cmd.Flags().BoolVar(&commandeer.options.Delete, "delete", false, "Delete each file after compressing it")
	cmd.Flags().BoolVarP(&commandeer.options.Stdout, "stdout", "c", false, "Write compressed data to standard output")
	cmd.Flags().BoolVar(&commandeer.options.Progress, "progress", false, "Show a progress bar while reading files")
	cmd.Flags().BoolVar(&commandeer.showSummary, "summary", true, "Print sizes and ratio of each compressed file")

	commandeer.cmd = cmd
	return commandeer
}

type benchmarkCommandeer struct {
	*rootCommandeer
	cmd     *cobra.Command
	options *engine.Options
}

func newBenchmarkCommandeer(rootCommandeer *rootCommandeer) *benchmarkCommandeer {
	commandeer := &benchmarkCommandeer{
		rootCommandeer: rootCommandeer,
		options:        engine.DefaultOptions(),
	}

	cmd := &cobra.Command{
		Use:   "benchmark file[,file...] ...",
		Short: "Compare against other gzip encoders",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := splitFiles(args)
			if len(files) == 0 {
				return errors.New("Benchmark requires at least one file")
			}

			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			engineInstance, err := engine.NewEngine(rootCommandeer.loggerInstance, commandeer.options)
			if err != nil {
				return errors.Wrap(err, "Failed to create engine")
			}

			results, err := engineInstance.Benchmark(context.Background(), files)
			if err != nil {
				return errors.Wrap(err, "Failed to benchmark")
			}

			engine.RenderBenchmark(cmd.OutOrStdout(), results)
			return nil
		},
	}

	addCompressionFlags(cmd, commandeer.options)
	commandeer.cmd = cmd
	return commandeer
}

func addCompressionFlags(cmd *cobra.Command, options *engine.Options) {
	if options.Flate == nil {
		options.Flate = flate.DefaultConfig()
	}

	cmd.Flags().StringVarP(&options.Algorithm, "algorithm", "a", options.Algorithm,
		fmt.Sprintf("Output format, choices include: %s", strings.Join(engine.Algorithms[:], ", ")))
	cmd.Flags().IntVar(&options.Flate.BufferSize, "buffer-size", options.Flate.BufferSize,
		"Input bytes per DEFLATE block")
	cmd.Flags().IntVar(&options.Flate.Match.WindowCapacity, "window", options.Flate.Match.WindowCapacity,
		"Recent positions kept by the match finder")
	cmd.Flags().IntVar(&options.Flate.Match.KeySize, "key-size", options.Flate.Match.KeySize,
		"Bytes hashed per match lookup, 2 or 3")
	cmd.Flags().IntVar(&options.Flate.Match.MaxCandidates, "candidates", options.Flate.Match.MaxCandidates,
		"Match candidates compared per position")
}

// splitFiles accepts both separate arguments and comma separated lists.
func splitFiles(args []string) []string {
	var files []string
	for _, arg := range args {
		for _, file := range strings.Split(arg, ",") {
			if file = strings.TrimSpace(file); file != "" {
				files = append(files, file)
			}
		}
	}
	return files
}

func main() {
	if err := newRootCommandeer().cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Failed") // nolint: errcheck
		errors.PrintErrorStack(os.Stderr, err, 5)

		os.Exit(1)
	}
}
