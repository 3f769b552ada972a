// Package fileprocessor handles the per file run workflow
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile runs a single ROM and writes the headless frame dump to the
// output file or stdout.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) (*pipeline.Result, error) {
	writer, err := createWriter(opts)
	if err != nil {
		return nil, fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	result, err := pipeline.New(logger).Execute(ctx, opts, writer)
	if err != nil {
		return result, fmt.Errorf("running %s: %w", opts.Input, err)
	}

	if !opts.Quiet && opts.Batch != "" {
		logger.Info("ROM finished",
			log.String("file", opts.Input),
			log.Int("frames", int(result.Frames)),
			log.Int("instructions", int(result.Instructions)),
			log.Int("unknown_opcodes", int(result.UnknownOpcodes)),
			log.String("checksum", fmt.Sprintf("%016x", result.Checksum)))
	}
	return result, nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("batch pattern %s matches no file", opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates the frame dump filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".txt"
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}
