// Package turbinesim generates the synthetic wind-turbine telemetry behind
// a monitoring dashboard: power-curve sweeps, rolling operational-factor
// histories with deviation scoring, and Gaussian reference/actual
// distributions. All generators are synchronous and total over valid unit
// IDs; scheduling (the periodic re-sample tick) belongs to the caller, see
// the session package.
package turbinesim

import (
	"math/rand/v2"
	"time"
)

// Simulator ties the unit registry to a random source and exposes the
// generator entry points. Generators branch on the unit's behavioural
// profile, resolved once from the registry.
type Simulator struct {
	registry *Registry
	r        *rand.Rand
	now      func() time.Time
}

// New returns a Simulator over the given registry, seeded from the clock.
func New(registry *Registry) *Simulator {
	return NewWithRand(registry, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
}

// NewWithRand returns a Simulator using the given random source. Tests use
// this for deterministic output.
func NewWithRand(registry *Registry, r *rand.Rand) *Simulator {
	return &Simulator{
		registry: registry,
		r:        r,
		now:      time.Now,
	}
}

// Units returns the monitored unit catalogue in its configured order.
func (s *Simulator) Units() []Unit {
	return s.registry.Units()
}

// UnitByID returns the unit with the given ID, or ErrUnknownUnit.
func (s *Simulator) UnitByID(id int) (Unit, error) {
	return s.registry.UnitByID(id)
}

// GeneratePowerCurveSamples produces a fresh power-curve sweep for the
// unit. pointHint is advisory; the sample count is fixed by the sweep
// zones. Two sweeps for the same unit share identical wind-speed, envelope
// and expected-power sequences, only ActualPower varies.
func (s *Simulator) GeneratePowerCurveSamples(unitID, pointHint int) ([]PowerCurveSample, error) {
	unit, err := s.registry.UnitByID(unitID)
	if err != nil {
		return nil, err
	}
	return generatePowerCurveSamples(s.r, unit.Profile, pointHint, s.now()), nil
}

// InitializeFactors builds the four-factor set for a freshly selected unit,
// with backfilled history, sorted by descending deviation score.
func (s *Simulator) InitializeFactors(unitID int) ([]CorrelationFactor, error) {
	unit, err := s.registry.UnitByID(unitID)
	if err != nil {
		return nil, err
	}
	return initializeFactors(s.r, unit.Profile, s.now()), nil
}

// AdvanceFactors draws one new reading per factor and returns a new set,
// sorted by descending deviation score; the input set is not mutated.
// tickIndex identifies the caller's tick for traceability; the draw
// distributions do not depend on it.
func (s *Simulator) AdvanceFactors(unitID, tickIndex int, factors []CorrelationFactor) ([]CorrelationFactor, error) {
	unit, err := s.registry.UnitByID(unitID)
	if err != nil {
		return nil, err
	}
	return advanceFactors(s.r, unit.Profile, factors, s.now()), nil
}

// ComputeDistribution derives the reference/actual density snapshot for one
// factor of the unit. Stateless: recomputed on every call.
func (s *Simulator) ComputeDistribution(factor CorrelationFactor, unitID int) (DistributionSnapshot, error) {
	unit, err := s.registry.UnitByID(unitID)
	if err != nil {
		return DistributionSnapshot{}, err
	}
	return computeDistribution(s.r, factor, unit.Profile), nil
}
