package scheduler

import "time"

// fakeClock advances only when Sleep is called or advance is used.
type fakeClock struct {
	now       time.Time
	sleeps    []time.Duration
	oversleep time.Duration // added to every sleep
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d + c.oversleep)
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// machineMock counts calls and optionally consumes time per instruction.
type machineMock struct {
	clock       *fakeClock
	cycleCost   time.Duration
	cycles      int
	timerTicks  int
	cycleTimes  []time.Time
	failAtCycle int
	err         error
}

func (m *machineMock) Cycle() error {
	m.cycles++
	if m.clock != nil {
		m.cycleTimes = append(m.cycleTimes, m.clock.now)
		m.clock.advance(m.cycleCost)
	}
	if m.failAtCycle > 0 && m.cycles == m.failAtCycle {
		return m.err
	}
	return nil
}

func (m *machineMock) UpdateTimers() {
	m.timerTicks++
}
