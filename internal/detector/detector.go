// Package detector handles system architecture detection.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedSystem is returned for ROMs of systems other than CHIP-8,
// including the SCHIP and XO-CHIP supersets.
var ErrUnsupportedSystem = errors.New("unsupported system")

// archiveExtensions wrap the actual ROM, the inner extension decides.
var archiveExtensions = map[string]struct{}{
	".7z":  {},
	".zip": {},
	".gz":  {},
}

// supersetExtensions are ROM formats that need opcodes beyond CHIP-8.
var supersetExtensions = map[string]string{
	".sc8": "SCHIP",
	".xo8": "XO-CHIP",
}

// Detector handles system architecture detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system architecture from options or file auto-detection.
// It first checks if a system is explicitly specified in options, otherwise
// attempts to detect the system from the input filename extension.
func (d *Detector) Detect(opts options.Program) (arch.System, error) {
	if opts.System != "" {
		system, _ := arch.SystemFromString(opts.System)
		if system != arch.CHIP8System {
			return "", fmt.Errorf("%w '%s'", ErrUnsupportedSystem, opts.System)
		}
		return system, nil
	}

	system, err := d.detectFromFile(opts.Input)
	if err != nil {
		return "", err
	}
	d.logger.Debug("Auto-detected system",
		log.Stringer("system", system),
		log.String("file", opts.Input))
	return system, nil
}

// detectFromFile determines the system type based on file extension.
// Unknown extensions are treated as raw CHIP-8 programs.
func (d *Detector) detectFromFile(filename string) (arch.System, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := archiveExtensions[ext]; ok {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(filename, filepath.Ext(filename))))
	}

	if variant, ok := supersetExtensions[ext]; ok {
		return "", fmt.Errorf("%w: %s ROM '%s'", ErrUnsupportedSystem, variant, filename)
	}
	if ext == ".nes" {
		return "", fmt.Errorf("%w: %s ROM '%s'", ErrUnsupportedSystem, arch.NES, filename)
	}
	return arch.CHIP8System, nil
}
