package turbinesim

import (
	"math/rand/v2"

	"github.com/windscope/turbinesim/mathfuncs"
)

// Shaping of the actual distribution relative to the reference, per
// behavioural profile. Shifts are fractions of the normal-range width and
// move away from the reference mean, toward the side the factor's current
// value already leans.
const (
	criticalMeanShift   = 0.40
	criticalStdDevScale = 2.0
	warningMeanShift    = 0.25
	warningStdDevScale  = 1.4
	nominalJitterSigma  = 0.25 // of the reference std dev
	nominalStdDevScale  = 1.1
)

// densityPoints is the discretisation of each Gaussian curve.
const densityPoints = 101

// DensityPoint is one sampled point of a probability density curve.
type DensityPoint struct {
	Value   float64 `json:"value"`
	Density float64 `json:"density"`
}

// DistributionSnapshot holds the reference and actual Gaussian densities for
// one factor, sampled over the same value axis. Snapshots are derived on
// demand and never cached.
type DistributionSnapshot struct {
	Reference       []DensityPoint `json:"reference"`
	Actual          []DensityPoint `json:"actual"`
	ReferenceMean   float64        `json:"referenceMean"`
	ReferenceStdDev float64        `json:"referenceStdDev"`
	ActualMean      float64        `json:"actualMean"`
	ActualStdDev    float64        `json:"actualStdDev"`
}

// computeDistribution derives the reference Gaussian from the factor's
// normal range (range width spans roughly ±3 sigma) and the actual Gaussian
// from the unit's behavioural profile.
func computeDistribution(r *rand.Rand, factor CorrelationFactor, profile BehaviorProfile) DistributionSnapshot {
	width := factor.NormalRange.width()
	refMean := factor.NormalRange.midpoint()
	refStdDev := width / 6

	direction := 1.0
	if factor.Value < refMean {
		direction = -1.0
	}

	var actualMean, actualStdDev float64
	switch profile {
	case ProfileCritical:
		actualMean = refMean + direction*criticalMeanShift*width
		actualStdDev = refStdDev * criticalStdDevScale
	case ProfileWarning:
		actualMean = refMean + direction*warningMeanShift*width
		actualStdDev = refStdDev * warningStdDevScale
	default:
		actualMean = refMean + mathfuncs.Jitter(r, nominalJitterSigma*refStdDev)
		actualStdDev = refStdDev * nominalStdDevScale
	}

	lo := factor.NormalRange.Min - 0.5*width
	hi := factor.NormalRange.Max + 0.5*width

	return DistributionSnapshot{
		Reference:       sampleDensity(refMean, refStdDev, lo, hi),
		Actual:          sampleDensity(actualMean, actualStdDev, lo, hi),
		ReferenceMean:   refMean,
		ReferenceStdDev: refStdDev,
		ActualMean:      actualMean,
		ActualStdDev:    actualStdDev,
	}
}

// sampleDensity discretises one Gaussian over [lo, hi].
func sampleDensity(mean, stdDev, lo, hi float64) []DensityPoint {
	step := (hi - lo) / float64(densityPoints-1)
	points := make([]DensityPoint, densityPoints)
	for i := range points {
		x := lo + float64(i)*step
		points[i] = DensityPoint{
			Value:   x,
			Density: mathfuncs.GaussianPDF(x, mean, stdDev),
		}
	}
	return points
}
