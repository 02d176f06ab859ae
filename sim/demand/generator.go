// Package demand generates the fixed-length demand series the engine
// consumes. The engine itself never samples demand: it receives a
// (num_skus, time_periods) matrix of non-negative integers, and this package
// is one producer of such matrices.
package demand

import (
	"fmt"
	"math"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Type names a demand sampler.
type Type string

const (
	// Norm draws from a normal distribution; a series containing any negative
	// draw is shifted right by twice its minimum so every entry is positive.
	Norm Type = "norm"
	// Poisson draws from a Poisson distribution with lambda = mean.
	Poisson Type = "poisson"
	// Binomial draws k from Binomial(n=2, p=0.15) and scales to mean + k*sd.
	Binomial Type = "binomial"
	// Random multiplies a uniform trend in [1,3) by a uniform seasonality
	// factor in [0.8,1.2) on a base of 100 units.
	Random Type = "random"
	// Trend is Random with a linear trend component added per period.
	Trend Type = "trend"
	// Seasonal is Random with a sinusoidal seasonality factor.
	Seasonal Type = "seasonal"
)

// Spec parameterizes the demand series of one SKU.
type Spec struct {
	Type Type
	Mean float64
	SD   float64

	// Frequency thins the series: with frequency f > 1, only every f-th
	// period carries demand and the rest are zeroed (e.g. 7 = weekly).
	Frequency int

	// TrendCoeff sets the slope for Trend (default 0.1 when zero).
	TrendCoeff float64
	// FreqCoeff sets the seasonality frequency for Seasonal (default 0.2).
	FreqCoeff float64
}

// Validate rejects malformed specs before any sampling happens.
func (s Spec) Validate() error {
	switch s.Type {
	case Norm, Binomial:
		if s.Mean < 0 || s.SD < 0 {
			return fmt.Errorf("demand spec %s: mean and sd must be non-negative", s.Type)
		}
	case Poisson:
		if s.Mean <= 0 {
			return fmt.Errorf("demand spec poisson: mean must be positive, got %v", s.Mean)
		}
	case Random, Trend, Seasonal:
		// no distribution parameters
	default:
		return fmt.Errorf("unknown demand type %q; valid types: [norm, poisson, binomial, random, trend, seasonal]", s.Type)
	}
	if s.Frequency < 0 {
		return fmt.Errorf("demand spec %s: frequency must be non-negative, got %d", s.Type, s.Frequency)
	}
	return nil
}

// Generate produces one demand series per spec, each periods long, drawn from
// the given source. Entries are always non-negative integers, satisfying the
// engine's input contract.
func Generate(specs []Spec, periods int, src *xrand.Rand) ([][]int, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("demand: periods must be positive, got %d", periods)
	}
	series := make([][]int, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		series[i] = generateOne(spec, periods, src)
	}
	return series, nil
}

func generateOne(spec Spec, periods int, src *xrand.Rand) []int {
	out := make([]int, periods)

	switch spec.Type {
	case Norm:
		n := distuv.Normal{Mu: spec.Mean, Sigma: spec.SD, Src: src}
		minDemand := 0
		for t := range out {
			out[t] = int(n.Rand())
			if out[t] < minDemand {
				minDemand = out[t]
			}
		}
		// Shift the whole series right when any draw went negative, keeping
		// the spread while restoring non-negativity.
		if minDemand < 0 {
			for t := range out {
				out[t] -= 2 * minDemand
			}
		}
	case Poisson:
		p := distuv.Poisson{Lambda: spec.Mean, Src: src}
		for t := range out {
			out[t] = int(p.Rand())
		}
	case Binomial:
		b := distuv.Binomial{N: 2, P: 0.15, Src: src}
		for t := range out {
			out[t] = int(spec.Mean + b.Rand()*spec.SD)
		}
	case Random, Trend, Seasonal:
		trendCoeff := spec.TrendCoeff
		if trendCoeff == 0 {
			trendCoeff = 0.1
		}
		freqCoeff := spec.FreqCoeff
		if freqCoeff == 0 {
			freqCoeff = 0.2
		}
		trendDist := distuv.Uniform{Min: 1.0, Max: 3.0, Src: src}
		seasonDist := distuv.Uniform{Min: 0.8, Max: 1.2, Src: src}
		for t := range out {
			trend := trendDist.Rand()
			season := seasonDist.Rand()
			switch spec.Type {
			case Trend:
				trend += trendCoeff * float64(t)
			case Seasonal:
				season = math.Sin(freqCoeff*float64(t)) + 1
			}
			out[t] = int(100 * trend * season)
		}
	}

	if spec.Frequency > 1 {
		for t := range out {
			if t%spec.Frequency != 0 {
				out[t] = 0
			}
		}
	}

	// Final guard for the engine contract: no negative entries ever escape.
	for t := range out {
		if out[t] < 0 {
			out[t] = -out[t]
		}
	}

	return out
}
