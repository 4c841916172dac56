package sqltest

import "math"

// welford accumulates mean and squared distance incrementally, so one
// pass over the rows suffices.
type welford struct {
	n    int64
	mean float64
	m2   float64
}

func (w *welford) Step(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// sampleVariance divides by n-1, matching the SQL STDDEV/VARIANCE
// convention. Fewer than two rows yield zero.
func (w *welford) sampleVariance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

type stddevAgg struct{ welford }

func (a *stddevAgg) Done() float64 { return math.Sqrt(a.sampleVariance()) }

type varianceAgg struct{ welford }

func (a *varianceAgg) Done() float64 { return a.sampleVariance() }

func newStdDev() *stddevAgg { return &stddevAgg{} }

func newVariance() *varianceAgg { return &varianceAgg{} }
