package ports

import "waste-sim-service/internal/domain"

// Classifier maps a waste sample to a category.
// Implementations shipped with the service are stubs and their output is
// not authoritative; a trained model can be dropped in behind this port.
type Classifier interface {
	Classify(sample domain.Sample) (domain.Classification, error)
	Name() string
}

// SeededClassifier keeps its own random stream. Reseed restarts that stream
// so a reset to the same seed replays the same labels.
type SeededClassifier interface {
	Classifier
	Reseed(seed int64)
}
