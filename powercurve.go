package turbinesim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/windscope/turbinesim/mathfuncs"
)

// Operating envelope of the emulated turbine model.
const (
	CutInSpeed  = 3.0    // m/s, below this the rotor does not turn
	RatedSpeed  = 12.0   // m/s, start of the rated-power plateau
	CutOutSpeed = 25.0   // m/s, safety shutdown
	RatedPower  = 2000.0 // kW
)

// Baseline envelope bounds around the expected power curve.
const (
	minPowerFactor      = 0.85
	maxPowerFactor      = 1.05
	outputCeilingFactor = 0.98 // actual output never exceeds this fraction of maxPower
)

// Ramp zone where behavioural divergence between profiles is resolved.
const (
	rampStartSpeed = 4.0
	rampEndSpeed   = 11.0
)

// Ramp efficiency shaping per profile. The dip is a half sine subtracted
// from the base efficiency, peaking at the ramp midpoint.
const (
	nominalRampBase  = 0.95
	nominalRampDip   = 0.065 // keeps ramp efficiency within 88-98%
	degradedRampBase = 0.96
	degradedRampDip  = 0.185 // dips to 75-80% at the midpoint
	efficiencyNoise  = 0.02  // independent noise on every efficiency multiplier
)

// Faulted-profile shaping: output collapses to a low baseline with periodic
// recovery attempts that rise toward, but never reach, a fraction of the
// envelope floor.
const (
	faultBaselineFactor = 0.45 // of minPower
	spikeHalfWidth      = 1.2  // m/s, bell half-width of a recovery attempt
	spikeApproachFactor = 0.95 // attempts stall short of their target
	faultNoiseFactor    = 0.02 // of minPower, noise between attempts
)

// Wind speeds at which the faulted profile attempts to recover.
var recoverySpikeCenters = []float64{6.5, 10.0, 13.5, 17.0, 20.5}

var (
	cubicRamp   = mustShapeFunction("cubic")
	halfSineDip = mustShapeFunction("sine_dip")
)

func mustShapeFunction(name string) mathfuncs.ShapeFunction {
	f, err := mathfuncs.GetShapeFunctionFromName(name)
	if err != nil {
		panic(err)
	}
	return f
}

// PowerCurveSample is one point of a power-curve sweep. ActualPower is nil
// outside the operating range.
type PowerCurveSample struct {
	WindSpeed     float64  `json:"windSpeed"`
	ActualPower   *float64 `json:"actualPower,omitempty"`
	MinPower      float64  `json:"minPower"`
	MaxPower      float64  `json:"maxPower"`
	ExpectedPower float64  `json:"expectedPower"`
	Timestamp     string   `json:"timestamp"`
}

// ExpectedPower maps wind speed to the expected turbine output in kW using
// a cut-in/rated/cut-out piecewise curve with a cubic ramp between cut-in
// and rated speed. Total over all real wind speeds.
func ExpectedPower(windSpeed float64) float64 {
	switch {
	case windSpeed < CutInSpeed:
		return 0
	case windSpeed >= CutOutSpeed:
		return 0 // safety shutdown
	case windSpeed >= RatedSpeed:
		return RatedPower
	default:
		return cubicRamp(windSpeed-CutInSpeed, RatedPower, RatedSpeed-CutInSpeed)
	}
}

// windSpeedSweep returns the fixed non-uniform wind-speed grid: coarse
// outside the ramp zone, dense inside it so the dip-and-recover behaviour
// is resolved.
func windSpeedSweep() []float64 {
	var sweep []float64
	for i := 0; ; i++ {
		w := 0.5 * float64(i)
		if w > rampStartSpeed {
			break
		}
		sweep = append(sweep, w)
	}
	for i := 0; ; i++ {
		w := round2(4.1 + 0.1*float64(i))
		if w > rampEndSpeed {
			break
		}
		sweep = append(sweep, w)
	}
	for i := 0; ; i++ {
		w := 11.5 + 0.5*float64(i)
		if w > CutOutSpeed {
			break
		}
		sweep = append(sweep, w)
	}
	return sweep
}

// generatePowerCurveSamples produces a full sweep for one behavioural
// profile. pointHint is advisory only: the actual count is fixed by the
// zone grid. The grid, envelope and expected values are deterministic;
// only ActualPower carries the declared noise terms.
func generatePowerCurveSamples(r *rand.Rand, profile BehaviorProfile, pointHint int, now time.Time) []PowerCurveSample {
	// Recovery targets are drawn once per sweep so each attempt stalls at
	// a consistent height.
	var recoveryPeaks []float64
	if profile == ProfileCritical {
		recoveryPeaks = make([]float64, len(recoverySpikeCenters))
		for i := range recoveryPeaks {
			recoveryPeaks[i] = mathfuncs.UniformIn(r, 0.70, 0.85)
		}
	}

	timestamp := now.UTC().Format(time.RFC3339)
	sweep := windSpeedSweep()
	samples := make([]PowerCurveSample, 0, len(sweep))
	for _, w := range sweep {
		expected := ExpectedPower(w)
		minP := minPowerFactor * expected
		maxP := maxPowerFactor * expected

		sample := PowerCurveSample{
			WindSpeed:     round2(w),
			MinPower:      round1(minP),
			MaxPower:      round1(maxP),
			ExpectedPower: round1(expected),
			Timestamp:     timestamp,
		}

		if w >= CutInSpeed && w <= CutOutSpeed {
			actual := round1(actualPower(r, profile, w, expected, minP, maxP, recoveryPeaks))
			sample.ActualPower = &actual
		}

		samples = append(samples, sample)
	}
	return samples
}

// actualPower synthesises one observed output value for the given profile.
func actualPower(r *rand.Rand, profile BehaviorProfile, w, expected, minP, maxP float64, recoveryPeaks []float64) float64 {
	var value float64
	if profile == ProfileCritical {
		value = faultedPower(r, w, minP, recoveryPeaks)
	} else {
		value = rampEfficiency(r, profile, w) * expected
	}
	return math.Min(value, outputCeilingFactor*maxP)
}

// faultedPower holds output at a low baseline with bell-shaped recovery
// attempts around the preset spike centres.
func faultedPower(r *rand.Rand, w, minP float64, recoveryPeaks []float64) float64 {
	baseline := faultBaselineFactor * minP

	// The nearest attempt dominates; the bells are narrow enough that
	// neighbouring centres contribute nothing visible.
	pulse, peakFrac := 0.0, 0.0
	for i, center := range recoverySpikeCenters {
		p := mathfuncs.GaussianPulse(w-center, spikeHalfWidth)
		if p > pulse {
			pulse = p
			peakFrac = recoveryPeaks[i]
		}
	}

	value := baseline + (peakFrac*minP-baseline)*spikeApproachFactor*pulse
	return value + mathfuncs.Jitter(r, faultNoiseFactor*minP)
}

// rampEfficiency returns the efficiency multiplier for non-faulted
// profiles: a flat near-unity plateau above the ramp, a sine-shaped
// dip-and-recover curve inside it, and reduced efficiency below cut-in
// plus margin. Every branch carries independent noise.
func rampEfficiency(r *rand.Rand, profile BehaviorProfile, w float64) float64 {
	var eff float64
	switch {
	case w > rampEndSpeed:
		eff = mathfuncs.UniformIn(r, 0.98, 1.00)
	case w >= rampStartSpeed:
		progress := (w - rampStartSpeed) / (rampEndSpeed - rampStartSpeed)
		base, dip := nominalRampBase, nominalRampDip
		if profile == ProfileWarning {
			base, dip = degradedRampBase, degradedRampDip
		}
		eff = base - halfSineDip(progress, dip, 1.0)
	default:
		eff = mathfuncs.UniformIn(r, 0.85, 0.95)
	}
	return eff * (1 + mathfuncs.Jitter(r, efficiencyNoise))
}

// MeanActualPower averages the observed output across a sweep, skipping
// samples outside the operating range. An empty sweep averages to zero.
func MeanActualPower(samples []PowerCurveSample) float64 {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.ActualPower != nil {
			values = append(values, *s.ActualPower)
		}
	}
	return mathfuncs.Mean(values)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
