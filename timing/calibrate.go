package timing

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrTooFewSamples = errors.New("calibration needs at least two distinct iteration counts")

// Sample is one measurement of a delay loop.
type Sample struct {
	Iterations uint32
	Nanos      uint64
}

// Calibration is the fitted cost model nanos = Overhead + PerIteration*iterations.
type Calibration struct {
	Overhead     float64
	PerIteration float64
	RSquared     float64
}

// Calibrate fits a linear cost model to the samples.
func Calibrate(samples []Sample) (Calibration, error) {
	x := make([]float64, len(samples))
	y := make([]float64, len(samples))
	distinct := map[uint32]struct{}{}
	for i, s := range samples {
		x[i] = float64(s.Iterations)
		y[i] = float64(s.Nanos)
		distinct[s.Iterations] = struct{}{}
	}
	if len(distinct) < 2 {
		return Calibration{}, ErrTooFewSamples
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Calibration{
		Overhead:     alpha,
		PerIteration: beta,
		RSquared:     stat.RSquared(x, y, nil, alpha, beta),
	}, nil
}

// IterationsPerMicro returns the loop count closest to one microsecond,
// never less than one.
func (c Calibration) IterationsPerMicro() uint32 {
	if c.PerIteration <= 0 {
		return 1
	}
	n := math.Round(1000 / c.PerIteration)
	if n < 1 {
		return 1
	}
	return uint32(n)
}

// Measure runs d for each usecs value and records the elapsed time on src.
func Measure(src Source, d LoopDelay, usecs ...uint32) []Sample {
	per := d.IterationsPerMicro
	if per == 0 {
		per = DefaultIterationsPerMicro
	}
	samples := make([]Sample, 0, len(usecs))
	for _, u := range usecs {
		start := src.Now()
		d.Delay(u)
		samples = append(samples, Sample{Iterations: u * per, Nanos: src.Now() - start})
	}
	return samples
}
