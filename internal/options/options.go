// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input      string `flag:"i" usage:"input ROM file (.ch8, .c8, .rom or .7z archive)"`
	Screenshot string `flag:"screenshot" usage:"write a PNG of the final frame (headless mode)"`
	Web        string `flag:"web" usage:"serve the display over WebSocket on this address, e.g. :8080"`
	Output     string `flag:"o" usage:"name of the headless frame dump file (default: stdout)"`
	Batch      string `flag:"batch" usage:"run all ROMs matching the glob pattern headless"`
}

// Pacing contains the scheduler options.
type Pacing struct {
	InstructionsPerTick int    `flag:"ipf" usage:"instructions per 60 Hz tick" default:"11"`
	ClockHz             int    `flag:"hz" usage:"instruction clock in Hz, replaces -ipf"`
	Seed                uint64 `flag:"seed" usage:"random number generator seed (default: time based)"`
	Frames              uint64 `flag:"frames" usage:"stop after this many frames, 0 runs until interrupted"`
}

// Flags contains behavior options.
type Flags struct {
	System   string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Headless bool   `flag:"headless" usage:"run without a frontend and print the final frame"`
	Scale    int    `flag:"scale" usage:"pixel scale of screenshots" default:"8"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction (needs -debug)"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Pacing
	Flags

	SeedSet bool // a seed was passed on the command line
}
