// Package scorer defines the pluggable scorer contract and the OpenAI-backed
// implementation used for deep-check comparisons.
package scorer

import (
	"context"

	"business-dedup/internal/models"
)

// Scorer produces a model-based similarity for a record pair. The engine
// treats it as opaque: any score in [0,1] with nil error is blended into the
// algorithmic result, and any error triggers algorithmic-only fallback.
type Scorer interface {
	Score(ctx context.Context, a, b *models.BusinessRecord) (float64, error)
	Name() string
}
