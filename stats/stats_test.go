package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.scores))
	}
}

func TestWeightedMatchesRepeated(t *testing.T) {
	is := is.New(t)
	type sample struct {
		val    float64
		weight int
	}
	samples := []sample{{-16, 1}, {15, 4}, {3, 2}, {-4, 4}, {9, 4}, {1, 0}}

	weighted := &Statistic{}
	repeated := &Statistic{}
	for _, smp := range samples {
		weighted.PushWeighted(smp.val, float64(smp.weight))
		for range smp.weight {
			repeated.Push(smp.val)
		}
	}
	is.True(FuzzyEqual(weighted.Mean(), repeated.Mean()))
	is.True(FuzzyEqual(weighted.Variance(), repeated.Variance()))
	is.True(FuzzyEqual(weighted.StandardError(), repeated.StandardError()))
	is.Equal(weighted.Weight(), 15.0)
	is.Equal(weighted.Iterations(), len(samples))
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	vals := []float64{10, 12, 23, 23, 16, 23, 21, 16}
	all := &Statistic{}
	a := &Statistic{}
	b := &Statistic{}
	for i, v := range vals {
		all.PushWeighted(v, float64(i%3+1))
		if i < 3 {
			a.PushWeighted(v, float64(i%3+1))
		} else {
			b.PushWeighted(v, float64(i%3+1))
		}
	}
	a.Merge(b)
	is.True(FuzzyEqual(a.Mean(), all.Mean()))
	is.True(FuzzyEqual(a.Variance(), all.Variance()))
	is.Equal(a.Iterations(), all.Iterations())
	is.Equal(a.Last(), all.Last())

	empty := &Statistic{}
	empty.Merge(all)
	is.True(FuzzyEqual(empty.Mean(), all.Mean()))
	is.True(FuzzyEqual(empty.Stdev(), all.Stdev()))
}
