package sim

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/score"
)

// DefaultInterval is the tick period used when Options.Interval is zero.
const DefaultInterval = 3 * time.Second

// Simulated scores stay inside this band regardless of the starting score.
const (
	minSimScore = 60
	maxSimScore = 95
)

// Options configures a Simulator. The zero value is usable: a 3-second
// interval, a time-seeded random source and the wall clock.
type Options struct {
	// Interval is the tick period.
	Interval time.Duration

	// Seed seeds the random source. Zero means seed from the clock.
	// Fixing the seed makes tick sequences reproducible in tests.
	Seed int64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Simulator owns the live dataset snapshot and, while running, applies one
// randomized clamped mutation per tick, republishing a new immutable
// snapshot each time.
//
// All exported methods are safe for concurrent use. Start, Stop and Reset
// are idempotent; a generation counter fences the timer goroutine so no
// tick applies a mutation after Stop has returned.
type Simulator struct {
	interval time.Duration

	mu       sync.Mutex
	initial  *dataset.Snapshot
	current  *dataset.Snapshot
	rng      *rand.Rand
	now      func() time.Time
	running  bool
	gen      uint64
	stopCh   chan struct{}
	ticks    int
	lastTick time.Time
	subs     []func(*dataset.Snapshot)
}

// New creates a Simulator owning a copy of initial. The simulator starts
// in the Stopped state; the initial snapshot is immediately available via
// Snapshot.
func New(initial *dataset.Snapshot, opts Options) *Simulator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Simulator{
		interval: opts.Interval,
		initial:  initial.Clone(),
		current:  initial.Clone(),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		now:      opts.Now,
	}
}

// Subscribe registers fn to be called synchronously with every newly
// published snapshot. Subscribers must treat the snapshot as read-only.
func (s *Simulator) Subscribe(fn func(*dataset.Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current published snapshot. Callers must not
// modify it.
func (s *Simulator) Snapshot() *dataset.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Running reports whether the simulator is in the Running state.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Ticks returns the number of ticks applied since the last Reset.
func (s *Simulator) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// LastTick returns the time the last tick was applied, or the zero time.
func (s *Simulator) LastTick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

// Interval returns the configured tick period.
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// Start moves the simulator to Running and schedules the repeating tick.
// No-op if already running; starting twice never creates two timers.
func (s *Simulator) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stopCh = stop
	s.mu.Unlock()

	slog.Info("sim: started", "interval", s.interval)
	go s.loop(gen, stop)
}

// Stop moves the simulator to Stopped and cancels the repeating tick.
// Ticks already applied remain in effect; no tick begins after Stop
// returns. No-op if already stopped.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.stopLocked() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	slog.Info("sim: stopped")
}

// Reset forces Stopped, restores the initial snapshot and zeroes the tick
// counter and last-tick timestamp. The restored snapshot is published to
// subscribers.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.stopLocked()
	s.current = s.initial.Clone()
	s.ticks = 0
	s.lastTick = time.Time{}
	snap := s.current
	subs := append(([]func(*dataset.Snapshot))(nil), s.subs...)
	s.mu.Unlock()

	slog.Info("sim: reset")
	for _, fn := range subs {
		fn(snap)
	}
}

// stopLocked transitions to Stopped. Caller holds s.mu.
// Returns false when already stopped.
func (s *Simulator) stopLocked() bool {
	if !s.running {
		return false
	}
	s.running = false
	s.gen++
	close(s.stopCh)
	s.stopCh = nil
	return true
}

func (s *Simulator) loop(gen uint64, stop chan struct{}) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.tick(gen)
		}
	}
}

// tick applies one simulated update: pick a department uniformly at
// random, nudge its score by a delta in [-1, +1] clamped to [60, 95],
// recompute the average, stamp the index and publish a fresh snapshot.
// Ticking against an empty department list is a silent no-op.
func (s *Simulator) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.running {
		// A Stop or Reset raced this tick; drop it.
		s.mu.Unlock()
		return
	}
	if len(s.current.Departments) == 0 {
		s.mu.Unlock()
		return
	}

	i := s.rng.Intn(len(s.current.Departments))
	delta := s.rng.Float64()*2 - 1

	next := s.current.Clone()
	now := s.now()
	mutate(next, i, delta, now)

	s.current = next
	s.ticks++
	s.lastTick = now
	subs := append(([]func(*dataset.Snapshot))(nil), s.subs...)
	s.mu.Unlock()

	slog.Debug("sim: tick applied",
		"department", next.Departments[i].ID,
		"delta", delta,
		"score", next.Departments[i].Score,
	)
	for _, fn := range subs {
		fn(next)
	}
}

// mutate applies the tick's mutation to snap in place: department i gets
// delta applied to its score (clamped, one decimal), its trend label set,
// and the snapshot's derived aggregates refreshed.
func mutate(snap *dataset.Snapshot, i int, delta float64, now time.Time) {
	d := &snap.Departments[i]
	d.Score = score.Round1(score.Clamp(d.Score+delta, minSimScore, maxSimScore))
	d.Trend = score.TrendLabel(delta)
	snap.Statistics.AverageScore = snap.AverageScore()
	snap.IntegrationIndex.LastUpdated = now
}
