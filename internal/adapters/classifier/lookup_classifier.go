package classifier

import (
	"fmt"
	"math"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

const (
	// A sample with more than this share of hazardous material is flagged
	// regardless of what else is in it.
	hazardousShare = 0.05
	// Below this share neither organic nor recyclable dominates.
	dominantShare = 0.55
)

// LookupClassifier is a rule table over the sample's material composition.
//
// It is a stub: labels come from fixed share thresholds and the confidence
// is drawn from the sample's jitter (85-99% for a dominant label), mirroring
// the figures of the original dashboard. It is not a trained model.
type LookupClassifier struct{}

func NewLookupClassifier() *LookupClassifier { return &LookupClassifier{} }

func (c *LookupClassifier) Name() string { return "lookup" }

func (c *LookupClassifier) Classify(sample domain.Sample) (domain.Classification, error) {
	for _, m := range domain.Materials() {
		if w := sample.Composition[m]; w < 0 {
			return domain.Classification{}, fmt.Errorf("classify bin %s: negative weight for %s: %v", sample.BinID, m, w)
		}
	}

	jitter := clampUnit(sample.Jitter)

	total := sample.Total()
	if total == 0 {
		return domain.Classification{Label: domain.WasteGeneral, Confidence: 0.5 * jitter}, nil
	}

	share := func(ms ...domain.Material) float64 {
		sum := 0.0
		for _, m := range ms {
			sum += sample.Composition[m]
		}
		return sum / total
	}

	hazardous := share(domain.MaterialHazardous)
	organic := share(domain.MaterialOrganic)
	recyclable := share(domain.MaterialPlastic, domain.MaterialPaper, domain.MaterialGlass, domain.MaterialMetal)

	switch {
	case hazardous > hazardousShare:
		return domain.Classification{Label: domain.WasteHazardous, Confidence: clampUnit(0.85 + 0.14*jitter)}, nil
	case organic >= dominantShare && organic >= recyclable:
		return domain.Classification{Label: domain.WasteOrganic, Confidence: clampUnit(0.85 + 0.14*jitter)}, nil
	case recyclable >= dominantShare:
		return domain.Classification{Label: domain.WasteRecyclable, Confidence: clampUnit(0.85 + 0.14*jitter)}, nil
	default:
		return domain.Classification{Label: domain.WasteGeneral, Confidence: clampUnit(0.60 + 0.20*jitter)}, nil
	}
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ ports.Classifier = (*LookupClassifier)(nil)
