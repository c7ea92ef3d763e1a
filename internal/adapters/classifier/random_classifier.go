package classifier

import (
	"math/rand/v2"
	"sync"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// RandomClassifier ignores the sample and draws a label from its own seeded
// stream. Two classifiers built with the same seed and fed the same number
// of samples return the same sequence.
type RandomClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomClassifier(seed int64) *RandomClassifier {
	return &RandomClassifier{rng: newClassifierRand(seed)}
}

func newClassifierRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}

func (c *RandomClassifier) Reseed(seed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = newClassifierRand(seed)
}

func (c *RandomClassifier) Name() string { return "random" }

func (c *RandomClassifier) Classify(sample domain.Sample) (domain.Classification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cats := domain.Categories()
	label := cats[c.rng.IntN(len(cats))]
	confidence := 0.85 + 0.14*c.rng.Float64()

	return domain.Classification{Label: label, Confidence: confidence}, nil
}

var _ ports.SeededClassifier = (*RandomClassifier)(nil)
