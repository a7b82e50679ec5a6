// Package anomaly flags feature rows that are statistically unusual relative
// to the rest of their batch.
package anomaly

// Detector scores one batch of feature rows and returns a per-row outlier
// flag. "Outlier" is defined only relative to the other rows passed in the
// same call; implementations keep no state across calls, so every batch is
// scored against its own distribution.
type Detector interface {
	Flags(features [][]float64) []bool
}
