// Package session owns the dashboard re-sampling schedule. The turbinesim
// core is a pure function of (profile, previous state); a Session wraps it
// with the selected unit, the periodic tick timer and its cancellation, so
// a stale timer can never mutate a factor set that has been replaced. Each
// session's state is isolated: nothing is shared across sessions.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/windscope/turbinesim"
	"github.com/windscope/turbinesim/internal/logger"
)

// AdvanceFunc is called after every completed tick with the tick index and
// the new factor set.
type AdvanceFunc func(tick int, factors []turbinesim.CorrelationFactor)

// Session holds the selected unit's factor state and the tick loop driving
// it. Triggers are serialized: a tick handler (including its onAdvance
// delivery) runs to completion before a unit selection is processed, and
// vice versa, so a stale tick can never reach the consumer after a
// selection has returned.
type Session struct {
	id        uuid.UUID
	sim       *turbinesim.Simulator
	interval  time.Duration
	onAdvance AdvanceFunc

	// tickMu serializes triggers: tick handling and unit selection.
	tickMu sync.Mutex

	// mu protects the snapshot state below.
	mu      sync.Mutex
	unitID  int
	factors []turbinesim.CorrelationFactor
	tick    int

	resetC   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a session for the given unit with a freshly initialized
// factor set. onAdvance may be nil. The tick loop does not run until Start
// is called.
func New(sim *turbinesim.Simulator, unitID int, interval time.Duration, onAdvance AdvanceFunc) (*Session, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %v", interval)
	}

	factors, err := sim.InitializeFactors(unitID)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:        uuid.New(),
		sim:       sim,
		interval:  interval,
		onAdvance: onAdvance,
		unitID:    unitID,
		factors:   factors,
		resetC:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// UnitID returns the currently selected unit.
func (s *Session) UnitID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unitID
}

// Tick returns the number of completed ticks for the current unit.
func (s *Session) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Factors returns a snapshot of the current factor set.
func (s *Session) Factors() []turbinesim.CorrelationFactor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]turbinesim.CorrelationFactor(nil), s.factors...)
}

// Start launches the tick loop. It returns immediately; Stop cancels the
// loop.
func (s *Session) Start() {
	logger.Info("session %s: starting, unit %d, tick %v", s.id, s.unitID, s.interval)
	go s.run()
}

func (s *Session) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-s.resetC:
			ticker.Reset(s.interval)
		case <-ticker.C:
			s.advance()
		}
	}
}

// advance runs one tick: a new factor set replaces the old one atomically
// and is delivered before any other trigger is processed.
func (s *Session) advance() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	tick := s.tick + 1
	factors, err := s.sim.AdvanceFactors(s.unitID, tick, s.factors)
	if err != nil {
		// The unit cannot disappear from the registry mid-session;
		// surface it rather than guessing a profile.
		s.mu.Unlock()
		logger.Error("session %s: advance tick %d: %v", s.id, tick, err)
		return
	}
	s.tick = tick
	s.factors = factors
	cb := s.onAdvance
	snapshot := append([]turbinesim.CorrelationFactor(nil), factors...)
	s.mu.Unlock()

	logger.Debug("session %s: tick %d, top factor %s (%.1f%%)",
		s.id, tick, snapshot[0].ID, snapshot[0].DeviationScore)
	if cb != nil {
		cb(tick, snapshot)
	}
}

// SelectUnit replaces the factor set wholesale with a freshly initialized
// one for the new unit, resets the tick count and restarts the timer
// phase. It waits for an in-flight tick delivery to complete first, so
// once it returns no tick for the previous unit can reach the consumer
// and the next tick arrives a full interval after the switch. Must not
// be called from the onAdvance callback.
func (s *Session) SelectUnit(unitID int) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	factors, err := s.sim.InitializeFactors(unitID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.unitID = unitID
	s.factors = factors
	s.tick = 0
	s.mu.Unlock()

	select {
	case s.resetC <- struct{}{}:
	default:
	}

	logger.Info("session %s: selected unit %d", s.id, unitID)
	return nil
}

// PowerCurve generates a fresh power-curve sweep for the selected unit.
func (s *Session) PowerCurve(pointHint int) ([]turbinesim.PowerCurveSample, error) {
	s.mu.Lock()
	unitID := s.unitID
	s.mu.Unlock()
	return s.sim.GeneratePowerCurveSamples(unitID, pointHint)
}

// Distribution computes the density snapshot for one factor of the current
// set, identified by factor ID.
func (s *Session) Distribution(id turbinesim.FactorID) (turbinesim.DistributionSnapshot, error) {
	s.mu.Lock()
	unitID := s.unitID
	var factor *turbinesim.CorrelationFactor
	for i := range s.factors {
		if s.factors[i].ID == id {
			f := s.factors[i]
			factor = &f
			break
		}
	}
	s.mu.Unlock()

	if factor == nil {
		return turbinesim.DistributionSnapshot{}, fmt.Errorf("no factor %q in session", id)
	}
	return s.sim.ComputeDistribution(*factor, unitID)
}

// Stop cancels the tick loop. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		logger.Info("session %s: stopped after %d ticks", s.id, s.Tick())
	})
}
