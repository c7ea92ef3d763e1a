package domain

// WasteCategory is the label produced by a classifier.
type WasteCategory string

const (
	WasteOrganic    WasteCategory = "organic"
	WasteRecyclable WasteCategory = "recyclable"
	WasteHazardous  WasteCategory = "hazardous"
	WasteGeneral    WasteCategory = "general"
)

// Categories returns the fixed category set in a stable order.
func Categories() []WasteCategory {
	return []WasteCategory{WasteOrganic, WasteRecyclable, WasteHazardous, WasteGeneral}
}

// Valid reports whether c belongs to the fixed category set.
func (c WasteCategory) Valid() bool {
	switch c {
	case WasteOrganic, WasteRecyclable, WasteHazardous, WasteGeneral:
		return true
	}
	return false
}

// Material is a raw component of a synthetic waste sample.
type Material string

const (
	MaterialPlastic   Material = "plastic"
	MaterialPaper     Material = "paper"
	MaterialGlass     Material = "glass"
	MaterialMetal     Material = "metal"
	MaterialOrganic   Material = "organic"
	MaterialHazardous Material = "hazardous"
)

// Materials returns every material in a stable order. Iterating a
// composition map in this order keeps floating point sums reproducible.
func Materials() []Material {
	return []Material{
		MaterialPlastic,
		MaterialPaper,
		MaterialGlass,
		MaterialMetal,
		MaterialOrganic,
		MaterialHazardous,
	}
}

// Recyclable reports whether m counts towards the recycling rate.
func (m Material) Recyclable() bool {
	switch m {
	case MaterialPlastic, MaterialPaper, MaterialGlass, MaterialMetal:
		return true
	}
	return false
}

// TotalKg sums a composition in Materials order.
func TotalKg(comp map[Material]float64) float64 {
	var sum float64
	for _, m := range Materials() {
		sum += comp[m]
	}
	return sum
}

// Sample is the synthetic input handed to a classifier.
// Composition holds kilograms per material; Jitter is a draw in [0,1)
// that stub classifiers may use instead of keeping their own randomness.
type Sample struct {
	BinID       string               `json:"bin_id"`
	Tick        uint64               `json:"tick"`
	Composition map[Material]float64 `json:"composition"`
	Jitter      float64              `json:"jitter"`
}

// Total returns the sample weight across all materials.
func (s Sample) Total() float64 { return TotalKg(s.Composition) }

// Classification is a classifier verdict. It is not authoritative:
// the bundled classifiers are stubs.
type Classification struct {
	Label      WasteCategory `json:"label"`
	Confidence float64       `json:"confidence"`
}
