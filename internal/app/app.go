// Package app provides the main application helpers for the emulator.
package app

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Name of the application.
const Name = "retrochip8"

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(Name, log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the loaded ROM and the pacing.
func PrintInfo(logger *log.Logger, opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	hash := ROMHash(rom)
	if opts.ClockHz > 0 {
		logger.Info("Loaded CHIP-8 ROM",
			log.String("file", opts.Input),
			log.Int("size", len(rom)),
			log.String("xxhash", hash),
			log.Int("clock_hz", opts.ClockHz))
		return
	}

	logger.Info("Loaded CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.String("xxhash", hash),
		log.Int("instructions_per_tick", opts.InstructionsPerTick))
}

// ROMHash returns the hex encoded xxhash of the ROM content.
func ROMHash(rom []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(rom))
}
