package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance over weighted samples. A weight
// is a frequency: pushing x with weight 3 is the same as pushing it three
// times.
type Statistic struct {
	totalIterations int
	totalWeight     float64
	last            float64

	// West's weighted version of Welford's algorithm
	mean float64
	s    float64
}

func (s *Statistic) Push(val float64) {
	s.PushWeighted(val, 1)
}

func (s *Statistic) PushWeighted(val, weight float64) {
	s.last = val
	s.totalIterations++
	if weight <= 0 {
		return
	}
	s.totalWeight += weight
	delta := val - s.mean
	s.mean += delta * weight / s.totalWeight
	s.s += weight * delta * (val - s.mean)
}

// Merge folds o into s, as if every sample pushed to o had been pushed to s.
func (s *Statistic) Merge(o *Statistic) {
	if o.totalWeight == 0 {
		s.totalIterations += o.totalIterations
		return
	}
	w := s.totalWeight + o.totalWeight
	delta := o.mean - s.mean
	s.s += o.s + delta*delta*s.totalWeight*o.totalWeight/w
	s.mean += delta * o.totalWeight / w
	s.totalWeight = w
	s.totalIterations += o.totalIterations
	s.last = o.last
}

func (s *Statistic) Mean() float64 {
	if s.totalWeight > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalWeight <= 1 {
		return 0.0
	}
	return s.s / (s.totalWeight - 1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// StandardError returns the standard error of the statistic.
func (s *Statistic) StandardError() float64 {
	if s.totalWeight == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / s.totalWeight)
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

func (s *Statistic) Weight() float64 {
	return s.totalWeight
}
