// Package mathfuncs provides the curve shapes used by the turbine telemetry
// generators: ramp profiles, pulse envelopes, Gaussian densities and bounded
// random draws. Shape functions share the signature y=f(t,A,T) where A is an
// amplitude and T a characteristic width or period, so they can be looked up
// by name and swapped per behavioural profile.
package mathfuncs

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/stevenblair/sigourney/fast"
)

// A curve shape y=f(t,A,T). Takes amplitude, A, and characteristic width or
// period, T, as inputs and returns the value of the shape at position t.
type ShapeFunction func(t, A, T float64) float64

var shapeFunctions = map[string]ShapeFunction{
	"linear":         linearRamp,
	"cubic":          cubicRamp,
	"sine_dip":       sineDip,
	"gaussian_pulse": gaussianPulse,
	"random_noise":   randomNoise,
	"gaussian_noise": gaussianNoise,
	"flat":           flat,
}

func GetShapeFunctionNames() []string {
	names := make([]string, 0, len(shapeFunctions))
	for name := range shapeFunctions {
		names = append(names, name)
	}
	return names
}

// Returns the named shape function, or an error if no shape with that name
// is registered.
func GetShapeFunctionFromName(name string) (ShapeFunction, error) {
	shapeFunc, ok := shapeFunctions[name]
	if !ok {
		return nil, errors.New("shape function not found: " + name)
	}

	return shapeFunc, nil
}

// Returns a linear ramp y=(A/T)*t where A is the magnitude of the ramp, T is
// its duration, and t is elapsed position.
func linearRamp(t, A, T float64) float64 {
	m := A / T // slope of the ramp
	return m * t
}

// Returns a cubic ramp y=A*(t/T)^3, rising from 0 at t=0 to A at t=T.
// Used for the cut-in to rated-speed band of a turbine power curve.
func cubicRamp(t, A, T float64) float64 {
	p := t / T
	return A * p * p * p // faster than math.Pow(p, 3)
}

// Returns a half-sine dip y=A*sin(pi*t/T) over the window [0,T]: zero at the
// edges, peaking at A at the midpoint. Subtract it from a baseline
// efficiency to carve a dip-and-recover profile into a ramp.
func sineDip(t, A, T float64) float64 {
	return A * fast.Sin(math.Pi*t/T)
}

// Returns a bell-shaped pulse y=A*exp(-0.5*(t/T)^2) where t is the distance
// from the pulse centre and T is the half-width of the bell.
func gaussianPulse(t, A, T float64) float64 {
	d := t / T
	return A * math.Exp(-0.5*d*d)
}

// GaussianPulse is the exported form of the bell pulse, taking the distance
// from the pulse centre and the half-width, with unit amplitude.
func GaussianPulse(distance, halfWidth float64) float64 {
	return gaussianPulse(distance, 1.0, halfWidth)
}

// Returns additional random (uniform) noise of amplitude A.
func randomNoise(_, A, _ float64) float64 {
	return A * (rand.Float64()*2 - 1) // a random number between -A and A
}

// Returns additional Gaussian noise of amplitude A.
func gaussianNoise(_, A, _ float64) float64 {
	return rand.NormFloat64() * A
}

// Returns a constant value equal to A, independent of t or T.
func flat(_, A, _ float64) float64 {
	return A
}

// GaussianPDF returns the probability density of a normal distribution with
// the given mean and standard deviation, evaluated at x:
//
//	f(x) = 1/(sigma*sqrt(2*pi)) * exp(-(x-mu)^2 / (2*sigma^2))
func GaussianPDF(x, mean, stdDev float64) float64 {
	z := (x - mean) / stdDev
	return math.Exp(-0.5*z*z) / (stdDev * math.Sqrt(2*math.Pi))
}

// UniformIn returns a uniform random draw in [lo, hi).
func UniformIn(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Jitter returns a uniform random draw in [-maxAbs, maxAbs].
func Jitter(r *rand.Rand, maxAbs float64) float64 {
	return (r.Float64()*2 - 1) * maxAbs
}

// Mean returns the arithmetic mean of values. The denominator is guarded
// with a default of 1 so an empty slice averages to 0 rather than NaN.
func Mean(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		n = 1
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / n
}
