/*
Package rng provides the seeded random source every Designer owns.

Grounded on random/random.go's seed-then-sample idiom (DNASequence,
RandomRune), generalized from a single global rand.Seed call — which the
teacher uses directly and which would make concurrent Designers share
state — to a *rand.Rand instance owned per Designer, since the
concurrency model requires the core to be safely embeddable in a
parallel host with no shared global mutable state besides this RNG.
*/
package rng

import (
	"math/rand"
	"time"

	"github.com/mroth/weightedrand"
)

// Source is a per-Designer random source. A zero seed draws entropy from
// the platform clock, matching "if rng_seed = 0, seed from a platform
// entropy source."
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a Source. If seed is 0, the source is seeded from the
// platform clock instead of a fixed value.
func New(seed int64) *Source {
	actual := seed
	if actual == 0 {
		actual = time.Now().UnixNano()
	}
	return &Source{seed: actual, rng: rand.New(rand.NewSource(actual))}
}

// Seed returns the actual seed in use (never 0, even when the caller
// requested entropy-seeding).
func (s *Source) Seed() int64 { return s.seed }

// Rand exposes the underlying *rand.Rand for callers (such as
// constraint.Engine) that need direct math/rand access rather than this
// wrapper's narrower surface.
func (s *Source) Rand() *rand.Rand { return s.rng }

// Intn returns a non-negative pseudo-random int in [0,n).
func (s *Source) Intn(n int) int { return s.rng.Intn(n) }

// Float64 returns a pseudo-random float64 in [0,1).
func (s *Source) Float64() float64 { return s.rng.Float64() }

// Shuffle randomizes the order of n elements via swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) { s.rng.Shuffle(n, swap) }

// WeightedChoice is one candidate in a weighted sample: an opaque item
// plus its non-negative sampling weight.
type WeightedChoice struct {
	Item   interface{}
	Weight uint
}

// SampleWeighted draws one item from choices with probability
// proportional to its weight, used by the optimizer's scalarized-sampling
// mutation position selection (L1). Grounded on mroth/weightedrand
// instead of a hand-rolled alias-method sampler, per the domain-stack
// wiring ledger.
func (s *Source) SampleWeighted(choices []WeightedChoice) (interface{}, error) {
	wrChoices := make([]weightedrand.Choice, len(choices))
	for i, c := range choices {
		wrChoices[i] = weightedrand.Choice{Item: c.Item, Weight: c.Weight}
	}
	chooser, err := weightedrand.NewChooser(wrChoices...)
	if err != nil {
		return nil, err
	}
	return chooser.PickSource(s.rng), nil
}
