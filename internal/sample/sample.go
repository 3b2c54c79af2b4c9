// Package sample generates the illustrative numbers shown on the
// dashboards. Nothing here is measured; values only need to look plausible.
package sample

import (
	"math/rand/v2"
	"time"
)

// Generator produces random sample data. It is not safe for concurrent use;
// give each mounted page its own Generator.
type Generator struct {
	seed uint64
	rng  *rand.Rand
}

// New returns a generator for seed. Seed 0 picks a seed from the clock, so
// every render shows fresh numbers.
func New(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed actually in use.
func (g *Generator) Seed() uint64 { return g.seed }

// Int returns a value in [min, max].
func (g *Generator) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.IntN(max-min+1)
}

// Float returns a value in [min, max).
func (g *Generator) Float(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + g.rng.Float64()*(max-min)
}

// Series returns n whole numbers in [min, max].
func (g *Generator) Series(n, min, max int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(g.Int(min, max))
	}
	return out
}

// Walk returns n whole numbers starting near start, each step moving at
// most step up or down, clamped to [min, max].
func (g *Generator) Walk(n int, start, step, min, max float64) []float64 {
	out := make([]float64, n)
	v := start
	for i := range out {
		v += g.Float(-step, step)
		if v < min {
			v = min
		}
		if v > max {
			v = max
		}
		out[i] = float64(int(v + 0.5))
	}
	return out
}

// RiskScore returns a score in [0, 100].
func (g *Generator) RiskScore() int {
	return g.Int(0, 100)
}
