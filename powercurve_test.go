package turbinesim

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 0))
}

func TestExpectedPower(t *testing.T) {
	testcases := []struct {
		windSpeed float64
		expected  float64
	}{
		{0.0, 0.0},
		{2.99, 0.0},
		{3.0, 0.0},
		{7.5, 250.0}, // 2000*((7.5-3)/9)^3
		{12.0, 2000.0},
		{18.0, 2000.0},
		{24.99, 2000.0},
		{25.0, 0.0}, // cut-out shutdown
		{40.0, 0.0},
	}

	for _, tc := range testcases {
		t.Run(fmt.Sprintf("w=%.2f", tc.windSpeed), func(t *testing.T) {
			assert.InDelta(t, tc.expected, ExpectedPower(tc.windSpeed), 1e-6)
		})
	}
}

func TestExpectedPowerMonotonicOnRamp(t *testing.T) {
	prev := ExpectedPower(CutInSpeed)
	for w := CutInSpeed; w <= RatedSpeed; w += 0.01 {
		p := ExpectedPower(w)
		assert.GreaterOrEqual(t, p, prev, "expected power decreased at w=%.2f", w)
		prev = p
	}
}

func TestWindSpeedSweep(t *testing.T) {
	sweep := windSpeedSweep()

	// 9 coarse points to 4 m/s, 70 dense ramp points, 28 coarse to cut-out.
	assert.Len(t, sweep, 107)
	assert.Equal(t, 0.0, sweep[0])
	assert.Equal(t, 25.0, sweep[len(sweep)-1])

	for i := 1; i < len(sweep); i++ {
		assert.Greater(t, sweep[i], sweep[i-1], "sweep not ascending at index %d", i)
	}

	// The ramp zone is sampled at 0.1 m/s resolution.
	assert.Contains(t, sweep, 4.1)
	assert.Contains(t, sweep, 7.5)
	assert.Contains(t, sweep, 11.0)
	assert.NotContains(t, sweep, 11.1)
}

func TestGenerateSamplesEnvelope(t *testing.T) {
	for _, profile := range []BehaviorProfile{ProfileNominal, ProfileWarning, ProfileCritical} {
		t.Run(profile.String(), func(t *testing.T) {
			samples := generatePowerCurveSamples(newTestRand(), profile, 100, time.Now())

			for _, s := range samples {
				expected := ExpectedPower(s.WindSpeed)
				assert.InDelta(t, round1(0.85*expected), s.MinPower, 1e-9)
				assert.InDelta(t, round1(1.05*expected), s.MaxPower, 1e-9)
				assert.LessOrEqual(t, s.MinPower, s.MaxPower)

				inRange := s.WindSpeed >= CutInSpeed && s.WindSpeed <= CutOutSpeed
				if inRange {
					assert.NotNil(t, s.ActualPower, "actual power missing at w=%.2f", s.WindSpeed)
				} else {
					assert.Nil(t, s.ActualPower, "actual power present at w=%.2f", s.WindSpeed)
				}
			}
		})
	}
}

func TestGenerateSamplesDeterministicGrid(t *testing.T) {
	first := generatePowerCurveSamples(newTestRand(), ProfileNominal, 100, time.Now())
	second := generatePowerCurveSamples(rand.New(rand.NewPCG(7, 7)), ProfileNominal, 100, time.Now())

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].WindSpeed, second[i].WindSpeed)
		assert.Equal(t, first[i].MinPower, second[i].MinPower)
		assert.Equal(t, first[i].MaxPower, second[i].MaxPower)
		assert.Equal(t, first[i].ExpectedPower, second[i].ExpectedPower)
	}
}

func TestFaultedProfileStaysBelowEnvelope(t *testing.T) {
	samples := generatePowerCurveSamples(newTestRand(), ProfileCritical, 100, time.Now())

	for _, s := range samples {
		if s.ActualPower == nil || s.MinPower <= 0 {
			continue
		}
		// Recovery attempts stall at 0.70-0.85 of the envelope floor.
		assert.LessOrEqual(t, *s.ActualPower, s.MinPower,
			"faulted output above envelope floor at w=%.2f", s.WindSpeed)
	}
}

func TestDegradedProfileDipsAtRampMidpoint(t *testing.T) {
	samples := generatePowerCurveSamples(newTestRand(), ProfileWarning, 100, time.Now())

	var midpoint *PowerCurveSample
	for i := range samples {
		if samples[i].WindSpeed == 7.5 {
			midpoint = &samples[i]
			break
		}
	}
	assert.NotNil(t, midpoint)
	assert.NotNil(t, midpoint.ActualPower)

	// The dip bottoms out at 75-80% of expected, well below the 85% floor.
	assert.Less(t, *midpoint.ActualPower, midpoint.MinPower)

	// Above the ramp the profile locks back onto the rated plateau.
	for _, s := range samples {
		if s.WindSpeed < 15 || s.WindSpeed >= CutOutSpeed || s.ActualPower == nil {
			continue
		}
		assert.GreaterOrEqual(t, *s.ActualPower, s.MinPower, "plateau below envelope at w=%.2f", s.WindSpeed)
		assert.LessOrEqual(t, *s.ActualPower, s.MaxPower, "plateau above envelope at w=%.2f", s.WindSpeed)
	}
}

func TestNominalProfileTracksEnvelope(t *testing.T) {
	samples := generatePowerCurveSamples(newTestRand(), ProfileNominal, 100, time.Now())

	for _, s := range samples {
		if s.ActualPower == nil || s.WindSpeed < rampStartSpeed {
			continue
		}
		// 0.11 absorbs the 1-decimal rounding of both fields.
		assert.GreaterOrEqual(t, *s.ActualPower, s.MinPower-0.11,
			"nominal output below envelope at w=%.2f", s.WindSpeed)
		assert.LessOrEqual(t, *s.ActualPower, s.MaxPower+0.11,
			"nominal output above envelope at w=%.2f", s.WindSpeed)
	}
}

func TestMeanActualPower(t *testing.T) {
	samples := generatePowerCurveSamples(newTestRand(), ProfileNominal, 100, time.Now())

	mean := MeanActualPower(samples)
	assert.Greater(t, mean, 0.0)
	assert.Less(t, mean, RatedPower*maxPowerFactor)

	// Sweeps with no in-range samples average to zero.
	assert.Equal(t, 0.0, MeanActualPower(nil))
	assert.Equal(t, 0.0, MeanActualPower([]PowerCurveSample{{WindSpeed: 26.0}}))
}

func TestSampleTimestampIsRFC3339(t *testing.T) {
	now := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	samples := generatePowerCurveSamples(newTestRand(), ProfileNominal, 100, now)

	for _, s := range samples {
		parsed, err := time.Parse(time.RFC3339, s.Timestamp)
		assert.NoError(t, err)
		assert.True(t, parsed.Equal(now))
	}
}
