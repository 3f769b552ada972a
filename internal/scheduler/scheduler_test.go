package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"clock", Config{TickRate: 60, ClockHz: 500}, false},
		{"no pacing", Config{TickRate: 60}, true},
		{"both pacing modes", Config{TickRate: 60, InstructionsPerTick: 10, ClockHz: 500}, true},
		{"zero tick rate", Config{InstructionsPerTick: 10}, true},
		{"negative instructions", Config{TickRate: 60, InstructionsPerTick: -1}, true},
		{"negative clock", Config{TickRate: 60, ClockHz: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	s, err := New(log.NewTestLogger(t), Config{TickRate: 60}, &machineMock{})
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

// stopAfter returns a frame function that stops the run after n frames.
func stopAfter(n uint64) FrameFunc {
	return func(frame uint64) error {
		if frame >= n {
			return ErrStop
		}
		return nil
	}
}

func newTestScheduler(t *testing.T, config Config, machine *machineMock, frameFunc FrameFunc) (*Scheduler, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	machine.clock = clock

	s, err := New(log.NewTestLogger(t), config, machine, WithClock(clock), WithFrameFunc(frameFunc))
	assert.NoError(t, err)
	return s, clock
}

func TestRun_InstructionsPerTick(t *testing.T) {
	machine := &machineMock{}
	config := Config{TickRate: 60, InstructionsPerTick: 10}
	s, clock := newTestScheduler(t, config, machine, stopAfter(5))

	assert.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 50, machine.cycles)
	assert.Equal(t, 5, machine.timerTicks)
	assert.Equal(t, uint64(5), s.Frames())

	// the last frame stops before sleeping
	assert.Len(t, clock.sleeps, 4)
	for _, d := range clock.sleeps {
		assert.Equal(t, config.TickInterval(), d)
	}
}

func TestRun_InstructionsPerTick_SleepsRemainder(t *testing.T) {
	machine := &machineMock{cycleCost: time.Millisecond}
	config := Config{TickRate: 60, InstructionsPerTick: 10}
	s, clock := newTestScheduler(t, config, machine, stopAfter(3))

	assert.NoError(t, s.Run(context.Background()))
	assert.Len(t, clock.sleeps, 2)
	for _, d := range clock.sleeps {
		assert.Equal(t, config.TickInterval()-10*time.Millisecond, d)
	}

	// instruction throughput never exceeds the configured count per tick
	for i := 10; i < len(machine.cycleTimes); i += 10 {
		elapsed := machine.cycleTimes[i].Sub(machine.cycleTimes[i-10])
		assert.True(t, elapsed >= config.TickInterval())
	}
}

func TestRun_InstructionsPerTick_Behind(t *testing.T) {
	machine := &machineMock{cycleCost: 2 * time.Millisecond}
	config := Config{TickRate: 60, InstructionsPerTick: 10}
	s, clock := newTestScheduler(t, config, machine, stopAfter(4))

	assert.NoError(t, s.Run(context.Background()))
	assert.Empty(t, clock.sleeps)
	assert.Equal(t, 4, machine.timerTicks)
}

func TestRun_Clock(t *testing.T) {
	machine := &machineMock{}
	config := Config{TickRate: 60, ClockHz: 600}
	s, _ := newTestScheduler(t, config, machine, stopAfter(3))

	assert.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, machine.timerTicks)

	// 10 instructions per tick at 600 Hz, plus the one issued at start
	assert.True(t, machine.cycles >= 29)
	assert.True(t, machine.cycles <= 31)

	cycleInterval := time.Second / 600
	for i := 1; i < len(machine.cycleTimes); i++ {
		assert.True(t, machine.cycleTimes[i].Sub(machine.cycleTimes[i-1]) >= cycleInterval)
	}
}

func TestRun_Clock_OneTimerTickPerBoundary(t *testing.T) {
	// every instruction takes three tick intervals
	machine := &machineMock{cycleCost: 50 * time.Millisecond}
	config := Config{TickRate: 60, ClockHz: 600}
	s, clock := newTestScheduler(t, config, machine, stopAfter(3))

	assert.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, machine.cycles)
	assert.Equal(t, 3, machine.timerTicks)
	assert.Empty(t, clock.sleeps)
}

func TestRun_OversleepKeepsTimerCadence(t *testing.T) {
	configs := map[string]Config{
		"instructions per tick": {TickRate: 60, InstructionsPerTick: 10},
		"clock":                 {TickRate: 60, ClockHz: 600},
	}

	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			machine := &machineMock{}
			s, clock := newTestScheduler(t, config, machine, stopAfter(600))
			clock.oversleep = time.Millisecond
			start := clock.now

			assert.NoError(t, s.Run(context.Background()))
			assert.Equal(t, 600, machine.timerTicks)

			// 600 ticks take 10 seconds, sleep overshoot must not accumulate
			elapsed := clock.now.Sub(start)
			assert.True(t, elapsed >= 10*time.Second-config.TickInterval())
			assert.True(t, elapsed < 10*time.Second+config.TickInterval())
		})
	}
}

func TestRun_Cancellation(t *testing.T) {
	configs := map[string]Config{
		"instructions per tick": {TickRate: 60, InstructionsPerTick: 5},
		"clock":                 {TickRate: 60, ClockHz: 300},
	}

	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			machine := &machineMock{}
			frameFunc := func(frame uint64) error {
				if frame == 2 {
					cancel()
				}
				return nil
			}
			s, _ := newTestScheduler(t, config, machine, frameFunc)

			err := s.Run(ctx)
			assert.True(t, errors.Is(err, context.Canceled))
			assert.Equal(t, 2, machine.timerTicks)
		})
	}
}

func TestRun_MachineError(t *testing.T) {
	errFatal := errors.New("fatal")
	machine := &machineMock{failAtCycle: 25, err: errFatal}
	config := Config{TickRate: 60, InstructionsPerTick: 10}
	s, _ := newTestScheduler(t, config, machine, nil)

	err := s.Run(context.Background())
	assert.True(t, errors.Is(err, errFatal))
	assert.Equal(t, 25, machine.cycles)
	assert.Equal(t, 2, machine.timerTicks)
}

func TestRun_FrameError(t *testing.T) {
	errRender := errors.New("render failed")
	machine := &machineMock{}
	config := Config{TickRate: 60, InstructionsPerTick: 1}
	s, _ := newTestScheduler(t, config, machine, func(uint64) error { return errRender })

	assert.True(t, errors.Is(s.Run(context.Background()), errRender))
	assert.Equal(t, 1, machine.timerTicks)
}

func TestSystemClock(t *testing.T) {
	var clock SystemClock
	start := clock.Now()
	clock.Sleep(time.Millisecond)
	assert.True(t, clock.Now().Sub(start) >= time.Millisecond)
}
