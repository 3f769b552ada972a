package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// clearLoopROM clears the screen and loops.
var clearLoopROM = []byte{
	0x00, 0xE0, // CLS
	0x12, 0x02, // JP 0x202
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ch8", "b.ch8", "notes.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), clearLoopROM, 0600))
	}

	tests := []struct {
		name     string
		opts     options.Program
		expected []string
		hasError bool
	}{
		{
			name:     "single input",
			opts:     options.Program{Parameters: options.Parameters{Input: "pong.ch8"}},
			expected: []string{"pong.ch8"},
		},
		{
			name: "batch pattern",
			opts: options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.ch8")}},
			expected: []string{
				filepath.Join(dir, "a.ch8"),
				filepath.Join(dir, "b.ch8"),
			},
		},
		{
			name:     "batch without match",
			opts:     options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.c8")}},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := GetFilesToProcess(&tt.opts)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, slices.Equal(tt.expected, files))
		})
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	assert.Equal(t, "roms/pong.txt", GenerateOutputFilename("roms/pong.ch8"))
	assert.Equal(t, "game.txt", GenerateOutputFilename("game"))
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clear.ch8")
	assert.NoError(t, os.WriteFile(input, clearLoopROM, 0600))

	var opts options.Program
	opts.Input = input
	opts.Output = GenerateOutputFilename(input)
	opts.InstructionsPerTick = scheduler.DefaultInstructionsPerTick
	opts.Frames = 1
	opts.Scale = 1
	opts.Headless = true

	result, err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), result.Frames)

	data, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Repeat(".", 64)+"\n"))
	assert.True(t, strings.Contains(string(data), "frames: 1"))
}

func TestProcessFile_MissingFile(t *testing.T) {
	var opts options.Program
	opts.Input = filepath.Join(t.TempDir(), "missing.ch8")
	opts.InstructionsPerTick = scheduler.DefaultInstructionsPerTick
	opts.Headless = true
	opts.Scale = 1

	_, err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.ErrorContains(t, err, "missing.ch8")
}
