// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/web"
	"github.com/retroenv/retrogolib/log"
)

// Result summarizes a finished emulation run.
type Result struct {
	Frames         uint64
	Instructions   uint64
	UnknownOpcodes uint64
	Checksum       uint64 // xxhash of the final frame
	State          cpu.State
}

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	clock    scheduler.Clock
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		clock:    scheduler.SystemClock{},
	}
}

// Execute detects the system of the input file, loads the ROM and runs it.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, out io.Writer) (*Result, error) {
	if _, err := p.detector.Detect(opts); err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	app.PrintInfo(p.logger, opts, rom)

	return p.ExecuteWithROM(ctx, rom, opts, out)
}

// machine bundles the components of one emulated system.
type machine struct {
	fb    *display.Framebuffer
	cpu   *cpu.CPU
	sched *scheduler.Scheduler
}

// ExecuteWithROM runs a ROM that is already in memory until the frame limit
// is reached, the context is cancelled or a fatal error occurs.
// In headless mode the final frame is written to out.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program, out io.Writer) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frontend, err := p.createFrontend(ctx, cancel, opts, out)
	if err != nil {
		return nil, err
	}
	defer func() {
		cancel()
		frontend.close()
	}()

	m, err := p.createMachine(rom, opts, frontend)
	if err != nil {
		return nil, err
	}

	runErr := m.sched.Run(ctx)
	cancel()
	frontend.close()

	result := &Result{
		Frames:         m.sched.Frames(),
		Instructions:   m.cpu.Cycles(),
		UnknownOpcodes: m.cpu.UnknownOpcodes(),
		Checksum:       m.fb.Checksum(),
		State:          m.cpu.Snapshot(),
	}

	// a failed web server cancels the run, its error takes precedence
	if err := frontend.err(); err != nil {
		return result, err
	}
	if runErr != nil {
		p.logFatal(runErr)
		return result, fmt.Errorf("running ROM: %w", runErr)
	}

	if opts.Headless {
		if err := p.writeHeadlessResult(m.fb, result, opts, out); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Pipeline) createMachine(rom []byte, opts options.Program, frontend *frontend) (*machine, error) {
	mem := memory.New()
	if err := mem.LoadProgram(rom); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	fb := display.New()

	cpuOpts := []cpu.Option{cpu.WithTrace(opts.Trace)}
	if opts.SeedSet {
		cpuOpts = append(cpuOpts, cpu.WithSeed(opts.Seed))
	}
	c := cpu.New(p.logger, mem, fb, frontend.keys, cpuOpts...)

	frameFunc := func(frame uint64) error {
		if err := frontend.present(fb); err != nil {
			return err
		}
		if opts.Frames > 0 && frame >= opts.Frames {
			return scheduler.ErrStop
		}
		return nil
	}

	sched, err := scheduler.New(p.logger, config.SchedulerConfig(opts), c,
		scheduler.WithClock(p.clock),
		scheduler.WithFrameFunc(frameFunc))
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	return &machine{
		fb:    fb,
		cpu:   c,
		sched: sched,
	}, nil
}

// logFatal logs the machine state of a fatal interpreter error.
func (p *Pipeline) logFatal(err error) {
	var fatalErr *cpu.FatalError
	if !errors.As(err, &fatalErr) {
		return
	}
	p.logger.Error("Emulation halted",
		log.Hex("address", fatalErr.Address),
		log.Hex("opcode", fatalErr.Opcode),
		log.String("instruction", chip8.Format(fatalErr.Opcode)),
		log.String("state", fatalErr.State.String()),
		log.Err(fatalErr.Err))
}

// writeHeadlessResult writes the frame dump to out. Quiet mode only
// suppresses the dump when it goes to stdout.
func (p *Pipeline) writeHeadlessResult(fb *display.Framebuffer, result *Result, opts options.Program, out io.Writer) error {
	if !opts.Quiet || opts.Output != "" {
		if _, err := fmt.Fprintf(out, "%s\nframes: %d instructions: %d checksum: %016x\n",
			fb.String(), result.Frames, result.Instructions, result.Checksum); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	if opts.Screenshot == "" {
		return nil
	}
	if err := writeScreenshot(fb, opts.Screenshot, opts.Scale); err != nil {
		return err
	}
	p.logger.Info("Screenshot written", log.String("file", opts.Screenshot))
	return nil
}

func writeScreenshot(fb *display.Framebuffer, filename string, scale int) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating screenshot file: %w", err)
	}
	if err := fb.WritePNG(f, scale); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing screenshot file: %w", err)
	}
	return nil
}

// frontend presents frames and feeds input for the selected mode.
type frontend struct {
	keys      *keyboard.Keypad
	host      *terminal.Host
	renderer  *terminal.Renderer
	server    *web.Server
	serveErr  chan error
	serveDone chan struct{}
	presented bool
	closed    bool
}

func (p *Pipeline) createFrontend(ctx context.Context, cancel context.CancelFunc,
	opts options.Program, out io.Writer) (*frontend, error) {

	f := &frontend{
		keys: keyboard.New(),
	}

	switch {
	case opts.Headless:
		// the final frame is written after the run

	case opts.Web != "":
		f.server = web.NewServer(p.logger, f.keys)
		f.serveErr = make(chan error, 1)
		f.serveDone = make(chan struct{})
		go func() {
			defer close(f.serveDone)
			err := f.server.ListenAndServe(ctx, opts.Web)
			f.serveErr <- err
			if err != nil {
				cancel()
			}
		}()

	default:
		f.host = terminal.NewHost(p.logger, f.keys, cancel)
		if err := f.host.Start(); err != nil {
			return nil, fmt.Errorf("starting terminal input: %w", err)
		}
		f.renderer = terminal.NewRenderer(out)
	}

	return f, nil
}

// present is called once per tick on the scheduler goroutine.
// Unchanged frames are only presented once.
func (f *frontend) present(fb *display.Framebuffer) error {
	if f.host != nil {
		f.host.Expire(time.Now())
	}
	if !fb.Dirty() && f.presented {
		return nil
	}
	f.presented = true

	switch {
	case f.server != nil:
		f.server.Publish(fb)
	case f.renderer != nil:
		if err := f.renderer.Render(fb); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
	return nil
}

func (f *frontend) close() {
	if f.closed {
		return
	}
	f.closed = true

	if f.serveDone != nil {
		<-f.serveDone
	}
	if f.host != nil {
		f.host.Stop()
	}
	if f.renderer != nil {
		_ = f.renderer.Close()
	}
}

// err returns the error of the web server if it stopped unexpectedly.
func (f *frontend) err() error {
	if f.serveErr == nil {
		return nil
	}
	select {
	case err := <-f.serveErr:
		if err != nil {
			return fmt.Errorf("web frontend: %w", err)
		}
	default:
	}
	return nil
}
