// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
)

const defaultScale = 8

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	opts.SeedSet = set["seed"]

	if err := normalizeOptions(&opts, set["ipf"]); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions selects the pacing mode and validates option values.
// A clock frequency replaces the default instructions per tick unless both
// were passed explicitly.
func normalizeOptions(opts *options.Program, instructionsSet bool) error {
	if opts.ClockHz != 0 {
		if instructionsSet {
			return errors.New("options -ipf and -hz can not be combined")
		}
		opts.InstructionsPerTick = 0
	}

	config := scheduler.Config{
		TickRate:            scheduler.DefaultTickRate,
		InstructionsPerTick: opts.InstructionsPerTick,
		ClockHz:             opts.ClockHz,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if opts.Scale <= 0 {
		return fmt.Errorf("invalid screenshot scale %d", opts.Scale)
	}
	if opts.Screenshot != "" && !opts.Headless {
		return errors.New("option -screenshot requires -headless")
	}
	if opts.Headless && opts.Web != "" {
		return errors.New("options -headless and -web can not be combined")
	}
	if opts.Output != "" && !opts.Headless {
		return errors.New("option -o requires -headless")
	}
	if opts.Batch != "" && (!opts.Headless || opts.Frames == 0) {
		return errors.New("option -batch requires -headless and -frames")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "write a PNG of the final frame, requires -headless")
	flags.StringVar(&opts.Output, "o", "", "name of the headless frame dump file, default is stdout")
	flags.StringVar(&opts.Batch, "batch", "", "run all ROMs matching the glob pattern, requires -headless and -frames")
	flags.StringVar(&opts.Web, "web", "", "serve the display over WebSocket on this address, for example :8080")
	flags.StringVar(&opts.System, "s", "", "system to emulate (chip8) - if not auto-detected from file extension")
	flags.IntVar(&opts.InstructionsPerTick, "ipf", scheduler.DefaultInstructionsPerTick, "instructions executed per 60 Hz timer tick")
	flags.IntVar(&opts.ClockHz, "hz", 0, "instruction clock in Hz, replaces -ipf")
	flags.Uint64Var(&opts.Seed, "seed", 0, "random number generator seed, time based if not set")
	flags.Uint64Var(&opts.Frames, "frames", 0, "stop after this many frames, 0 runs until interrupted")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "pixel scale of screenshots")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a frontend and print the final frame")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
