// Package scheduler paces instruction execution and the 60 Hz timer tick
// against a monotonic clock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultTickRate is the timer frequency in Hz.
	DefaultTickRate = 60

	// DefaultInstructionsPerTick is the default number of instructions
	// executed per timer tick.
	DefaultInstructionsPerTick = 11
)

var (
	// ErrStop can be returned by a FrameFunc to end the run without error.
	ErrStop = errors.New("stop requested")

	// ErrInvalidConfig is returned for an invalid pacing configuration.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)

// Machine is the interpreter driven by the scheduler.
type Machine interface {
	// Cycle executes a single instruction.
	Cycle() error
	// UpdateTimers decrements the timers, it is called once per tick.
	UpdateTimers()
}

// FrameFunc is called once per tick after the timers were updated.
// The frame number starts at 1.
type FrameFunc func(frame uint64) error

// Config contains the pacing parameters. Exactly one of InstructionsPerTick
// and ClockHz has to be set.
type Config struct {
	TickRate            int // timer ticks per second
	InstructionsPerTick int // fixed number of instructions per tick
	ClockHz             int // instructions per second, each issued once its time slot elapsed
}

// DefaultConfig returns the default configuration using a fixed number of
// instructions per tick.
func DefaultConfig() Config {
	return Config{
		TickRate:            DefaultTickRate,
		InstructionsPerTick: DefaultInstructionsPerTick,
	}
}

// Validate checks that the configuration selects exactly one pacing mode.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %d must be positive", ErrInvalidConfig, c.TickRate)
	}
	if c.InstructionsPerTick < 0 || c.ClockHz < 0 {
		return fmt.Errorf("%w: pacing values must not be negative", ErrInvalidConfig)
	}
	if (c.InstructionsPerTick == 0) == (c.ClockHz == 0) {
		return fmt.Errorf("%w: set either instructions per tick or clock frequency", ErrInvalidConfig)
	}
	return nil
}

// TickInterval returns the duration of one timer tick.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Scheduler drives a Machine at the configured rate.
type Scheduler struct {
	logger  *log.Logger
	config  Config
	machine Machine
	clock   Clock
	onFrame FrameFunc

	frames uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithFrameFunc sets the function that is called after every tick.
func WithFrameFunc(fn FrameFunc) Option {
	return func(s *Scheduler) {
		s.onFrame = fn
	}
}

// New returns a new scheduler for the machine.
func New(logger *log.Logger, config Config, machine Machine, opts ...Option) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		logger:  logger,
		config:  config,
		machine: machine,
		clock:   SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Frames returns the number of completed timer ticks.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Run executes the machine until the context is cancelled, the frame
// function returns ErrStop or the machine returns an error.
// Cancellation is checked at every tick boundary and returns the context error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("Starting scheduler",
		log.Int("tick_rate", s.config.TickRate),
		log.Int("instructions_per_tick", s.config.InstructionsPerTick),
		log.Int("clock_hz", s.config.ClockHz))

	var err error
	if s.config.ClockHz > 0 {
		err = s.runClocked(ctx)
	} else {
		err = s.runFrames(ctx)
	}
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

// runFrames executes a fixed number of instructions per tick and sleeps
// the remaining time of the tick.
func (s *Scheduler) runFrames(ctx context.Context) error {
	interval := s.config.TickInterval()
	tickStart := s.clock.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		for range s.config.InstructionsPerTick {
			if err := s.cycle(); err != nil {
				return err
			}
		}
		if err := s.tick(); err != nil {
			return err
		}

		next := tickStart.Add(interval)
		now := s.clock.Now()
		if remaining := next.Sub(now); remaining > 0 {
			s.clock.Sleep(remaining)
			tickStart = next
		} else {
			// running behind, ticks are not caught up
			tickStart = now
		}
	}
}

// runClocked issues every instruction once its time slot has elapsed and
// ticks the timers once for every observed tick boundary.
func (s *Scheduler) runClocked(ctx context.Context) error {
	tickInterval := s.config.TickInterval()
	cycleInterval := time.Second / time.Duration(s.config.ClockHz)

	start := s.clock.Now()
	lastTick := start
	lastCycle := start.Add(-cycleInterval)

	for {
		now := s.clock.Now()

		if now.Sub(lastTick) >= tickInterval {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.tick(); err != nil {
				return err
			}
			// ticks stay on the grid, running behind by more than one
			// interval drops the missed ticks
			lastTick = lastTick.Add(tickInterval)
			if now.Sub(lastTick) >= tickInterval {
				lastTick = now
			}
		}

		if now.Sub(lastCycle) >= cycleInterval {
			if err := s.cycle(); err != nil {
				return err
			}
			lastCycle = now
		}

		nextTick := lastTick.Add(tickInterval)
		nextCycle := lastCycle.Add(cycleInterval)
		next := nextCycle
		if nextTick.Before(next) {
			next = nextTick
		}
		if wait := next.Sub(s.clock.Now()); wait > 0 {
			s.clock.Sleep(wait)
		}
	}
}

func (s *Scheduler) cycle() error {
	return s.machine.Cycle()
}

func (s *Scheduler) tick() error {
	s.machine.UpdateTimers()
	s.frames++
	if s.onFrame == nil {
		return nil
	}
	return s.onFrame(s.frames)
}
