package domain

import "math/rand/v2"

// Shuffler produces a presentation order for a question's options.
type Shuffler interface {
	// Shuffle returns a permutation of options. The input slice is not modified.
	Shuffle(options []string) []string
}

// FisherYatesShuffler is an unbiased Knuth shuffle.
type FisherYatesShuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a shuffler backed by the runtime's random source.
func NewShuffler() *FisherYatesShuffler {
	return &FisherYatesShuffler{}
}

// NewSeededShuffler returns a deterministic shuffler.
func NewSeededShuffler(seed1, seed2 uint64) *FisherYatesShuffler {
	return &FisherYatesShuffler{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Shuffle implements Shuffler
func (s *FisherYatesShuffler) Shuffle(options []string) []string {
	shuffled := make([]string, len(options))
	copy(shuffled, options)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

func (s *FisherYatesShuffler) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}
