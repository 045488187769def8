package turbinesim

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/windscope/turbinesim/mathfuncs"
)

// FactorID identifies one of the four monitored operational factors.
type FactorID string

const (
	FactorPitch     FactorID = "pitch"
	FactorRotor     FactorID = "rotor"
	FactorGenerator FactorID = "generator"
	FactorWindSpeed FactorID = "windSpeed"
)

// Range is a closed numeric interval. The factor table guarantees Max > Min.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) width() float64 {
	return r.Max - r.Min
}

func (r Range) midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// HistoryPoint is one timestamped factor reading.
type HistoryPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// CorrelationFactor is the rolling state of one operational factor for the
// selected unit. Advance treats factors as immutable values: it returns a
// new set rather than mutating in place.
type CorrelationFactor struct {
	ID             FactorID       `json:"id"`
	Name           string         `json:"name"`
	Value          float64        `json:"value"`
	Deviation      float64        `json:"deviation"`
	DeviationScore float64        `json:"deviationScore"`
	Unit           string         `json:"unit"`
	NormalRange    Range          `json:"normalRange"`
	History        []HistoryPoint `json:"history"`
}

const (
	// initialHistoryPoints are backfilled on unit selection; the rolling
	// cap is enforced on every advance, so the first tick brings the
	// history under it.
	initialHistoryPoints = 30
	maxHistoryPoints     = 20

	// anomalyChance is how often a critical draw switches to the anomaly
	// sub-range, where the factor table defines one.
	anomalyChance = 0.3

	historyTimeLayout   = "15:04:05" // chart axis labels
	historyBackfillStep = 5 * time.Second
)

// span is a uniform draw offset+U(0,width).
type span struct {
	offset float64
	width  float64
}

func (s span) draw(r *rand.Rand) float64 {
	return s.offset + mathfuncs.UniformIn(r, 0, s.width)
}

// factorSpec is one row of the fixed factor table: display metadata, the
// configured normal range, and the class-conditional draw distributions.
type factorSpec struct {
	id          FactorID
	name        string
	unit        string
	normalRange Range
	nominal     span
	critical    span
	anomaly     *span // nil: no anomaly sub-range for this factor
}

var factorSpecs = []factorSpec{
	{
		id: FactorPitch, name: "Pitch Angle", unit: "°",
		normalRange: Range{Min: 0, Max: 5},
		nominal:     span{offset: 2, width: 3},
		critical:    span{offset: 12, width: 8},
		anomaly:     &span{offset: 20, width: 8},
	},
	{
		id: FactorRotor, name: "Rotor Speed", unit: "RPM",
		normalRange: Range{Min: 14, Max: 18},
		nominal:     span{offset: 14, width: 4},
		critical:    span{offset: 11, width: 4},
		anomaly:     &span{offset: 6, width: 3},
	},
	{
		id: FactorGenerator, name: "Generator Temperature", unit: "°C",
		normalRange: Range{Min: 65, Max: 75},
		nominal:     span{offset: 68, width: 6},
		critical:    span{offset: 85, width: 10},
	},
	{
		id: FactorWindSpeed, name: "Wind Speed", unit: "m/s",
		normalRange: Range{Min: 8, Max: 14},
		nominal:     span{offset: 9, width: 4},
		critical:    span{offset: 6, width: 3},
		anomaly:     &span{offset: 5, width: 2},
	},
}

// drawValue draws one factor reading from the class-conditional
// distribution. Warning units draw nominal values: their distinctiveness
// lives in the power-curve generator, not here.
func (spec factorSpec) drawValue(r *rand.Rand, profile BehaviorProfile) float64 {
	if profile != ProfileCritical {
		return round2(spec.nominal.draw(r))
	}
	if spec.anomaly != nil && r.Float64() < anomalyChance {
		return round2(spec.anomaly.draw(r))
	}
	return round2(spec.critical.draw(r))
}

// deviationOutside returns the signed distance of value outside the range,
// 0 if the value is inside.
func deviationOutside(value float64, nr Range) float64 {
	switch {
	case value > nr.Max:
		return value - nr.Max
	case value < nr.Min:
		return value - nr.Min
	default:
		return 0
	}
}

// deviationScore normalises the deviation against the range width as a
// percentage clamped to [0,100]. The factor table guarantees a non-zero
// width.
func deviationScore(deviation float64, nr Range) float64 {
	score := deviation / nr.width() * 100
	if score < 0 {
		score = -score
	}
	if score > 100 {
		score = 100
	}
	return score
}

// initializeFactors builds the four-factor set for a freshly selected unit:
// a current value plus 30 backfilled history points, each an independent
// class-conditional draw. The set is sorted by descending deviation score.
func initializeFactors(r *rand.Rand, profile BehaviorProfile, now time.Time) []CorrelationFactor {
	factors := make([]CorrelationFactor, 0, len(factorSpecs))
	for _, spec := range factorSpecs {
		value := spec.drawValue(r, profile)
		deviation := deviationOutside(value, spec.normalRange)

		history := make([]HistoryPoint, 0, initialHistoryPoints)
		for i := initialHistoryPoints; i > 0; i-- {
			history = append(history, HistoryPoint{
				Time:  now.Add(-time.Duration(i) * historyBackfillStep).Format(historyTimeLayout),
				Value: spec.drawValue(r, profile),
			})
		}

		factors = append(factors, CorrelationFactor{
			ID:             spec.id,
			Name:           spec.name,
			Value:          value,
			Deviation:      deviation,
			DeviationScore: deviationScore(deviation, spec.normalRange),
			Unit:           spec.unit,
			NormalRange:    spec.normalRange,
			History:        history,
		})
	}
	sortByDeviationScore(factors)
	return factors
}

// advanceFactors draws one new reading per factor, recomputes the deviation
// score, appends to history and trims it to the rolling cap. The input set
// is left untouched; a new sorted set is returned.
func advanceFactors(r *rand.Rand, profile BehaviorProfile, factors []CorrelationFactor, now time.Time) []CorrelationFactor {
	next := make([]CorrelationFactor, 0, len(factors))
	for _, factor := range factors {
		spec, ok := specByID(factor.ID)
		if !ok {
			// Unknown factors pass through unchanged rather than
			// defaulting to some other distribution.
			next = append(next, factor)
			continue
		}

		value := spec.drawValue(r, profile)
		deviation := deviationOutside(value, spec.normalRange)

		history := append(append([]HistoryPoint(nil), factor.History...), HistoryPoint{
			Time:  now.Format(historyTimeLayout),
			Value: value,
		})
		if len(history) > maxHistoryPoints {
			history = history[len(history)-maxHistoryPoints:]
		}

		factor.Value = value
		factor.Deviation = deviation
		factor.DeviationScore = deviationScore(deviation, spec.normalRange)
		factor.History = history
		next = append(next, factor)
	}
	sortByDeviationScore(next)
	return next
}

// sortByDeviationScore orders factors by descending score. The sort is
// stable: equal scores keep their prior relative order.
func sortByDeviationScore(factors []CorrelationFactor) {
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].DeviationScore > factors[j].DeviationScore
	})
}

func specByID(id FactorID) (factorSpec, bool) {
	for _, spec := range factorSpecs {
		if spec.id == id {
			return spec, true
		}
	}
	return factorSpec{}, false
}
