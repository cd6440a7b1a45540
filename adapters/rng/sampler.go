package rng

import (
	"math/rand/v2"
	"time"

	"polysynth/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// pcgStream separates the second PCG word from the seed so that seed 0 still yields a usable stream.
const pcgStream = 0x9e3779b97f4a7c15

// Sampler is a seeded ports.RNGPort. It is not safe for concurrent use; the
// generator draws everything it needs before variants fan out.
type Sampler struct {
	seed uint64
	src  rand.Source
	rnd  *rand.Rand
}

var _ ports.RNGPort = (*Sampler)(nil)

// NewSampler creates a deterministic sampler for seed
func NewSampler(seed uint64) *Sampler {
	src := rand.NewPCG(seed, seed^pcgStream)
	return &Sampler{
		seed: seed,
		src:  src,
		rnd:  rand.New(src),
	}
}

// ResolveSeed returns seed when set, otherwise one derived from the clock.
func ResolveSeed(seed uint64) uint64 {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return seed
}

// RunSeed is the seed of the run-th run (1-based) of an invocation started
// from base. Each run gets its own stream so its manifest seed replays it alone.
func RunSeed(base uint64, run int) uint64 {
	if run < 1 {
		run = 1
	}
	return base + uint64(run-1)
}

// Seed returns the seed the stream was created with
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Uniform draws a continuous value in [min, max)
func (s *Sampler) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

// IntRange draws an integer in [min, max], both bounds inclusive
func (s *Sampler) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rnd.IntN(max-min+1)
}

// UnitColumn draws n independent values in [0, 1)
func (s *Sampler) UnitColumn(n int) []float64 {
	dist := distuv.Uniform{Min: 0, Max: 1, Src: s.src}
	values := make([]float64, n)
	for i := range values {
		values[i] = dist.Rand()
	}
	return values
}
