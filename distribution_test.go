package turbinesim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDistributionCriticalScenario(t *testing.T) {
	factor := CorrelationFactor{
		ID:          FactorGenerator,
		Value:       87,
		NormalRange: Range{Min: 65, Max: 75},
	}

	snapshot := computeDistribution(newTestRand(), factor, ProfileCritical)

	assert.InDelta(t, 70.0, snapshot.ReferenceMean, 1e-9)
	assert.InDelta(t, 10.0/6.0, snapshot.ReferenceStdDev, 1e-9)

	// The value leans above the reference, so the shift is positive:
	// 70 + 0.4*10.
	assert.InDelta(t, 74.0, snapshot.ActualMean, 1e-9)
	assert.InDelta(t, 2.0*10.0/6.0, snapshot.ActualStdDev, 1e-9)

	assert.Len(t, snapshot.Reference, 101)
	assert.Len(t, snapshot.Actual, 101)
	assert.InDelta(t, 60.0, snapshot.Reference[0].Value, 1e-9)
	assert.InDelta(t, 80.0, snapshot.Reference[100].Value, 1e-9)
}

func TestComputeDistributionWarningLeansLow(t *testing.T) {
	factor := CorrelationFactor{
		ID:          FactorRotor,
		Value:       13, // below the midpoint of [14,18]
		NormalRange: Range{Min: 14, Max: 18},
	}

	snapshot := computeDistribution(newTestRand(), factor, ProfileWarning)

	assert.InDelta(t, 16.0-0.25*4.0, snapshot.ActualMean, 1e-9)
	assert.InDelta(t, 1.4*4.0/6.0, snapshot.ActualStdDev, 1e-9)
}

func TestComputeDistributionNominal(t *testing.T) {
	factor := CorrelationFactor{
		ID:          FactorPitch,
		Value:       3,
		NormalRange: Range{Min: 0, Max: 5},
	}
	refStdDev := 5.0 / 6.0

	r := newTestRand()
	for i := 0; i < 100; i++ {
		snapshot := computeDistribution(r, factor, ProfileNominal)
		assert.LessOrEqual(t, math.Abs(snapshot.ActualMean-2.5), 0.25*refStdDev+1e-9)
		assert.InDelta(t, 1.1*refStdDev, snapshot.ActualStdDev, 1e-9)
	}
}

func TestDensityCurveShape(t *testing.T) {
	factor := CorrelationFactor{
		ID:          FactorWindSpeed,
		Value:       11,
		NormalRange: Range{Min: 8, Max: 14},
	}

	snapshot := computeDistribution(newTestRand(), factor, ProfileCritical)

	// Densities are positive and the reference curve peaks at its mean.
	peak := 0.0
	peakValue := 0.0
	for _, p := range snapshot.Reference {
		assert.Greater(t, p.Density, 0.0)
		if p.Density > peak {
			peak = p.Density
			peakValue = p.Value
		}
	}
	assert.InDelta(t, snapshot.ReferenceMean, peakValue, 0.21) // within one sample step
	assert.InDelta(t, 1/(snapshot.ReferenceStdDev*math.Sqrt(2*math.Pi)), peak, 1e-3)
}

func TestComputeDistributionStateless(t *testing.T) {
	factor := CorrelationFactor{
		ID:          FactorGenerator,
		Value:       90,
		NormalRange: Range{Min: 65, Max: 75},
	}

	first := computeDistribution(newTestRand(), factor, ProfileCritical)
	second := computeDistribution(newTestRand(), factor, ProfileCritical)

	// Critical snapshots are a pure function of factor and profile.
	assert.Equal(t, first, second)
}
