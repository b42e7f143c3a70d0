package vision

import (
	"context"
	"io"
)

// ClassifyPrompt is the shared prompt used by all classifier adapters.
const ClassifyPrompt = `Identify the single most prominent food item in this photo.
Respond with exactly one line in the format: label | confidence
where label is a short lowercase food name (e.g. "milk", "chicken wings")
and confidence is a number between 0 and 1. No other text.`

// UnknownLabel is what failed or unparseable classifications degrade to.
// Inserts proceed with this label and the default shelf life rather than
// aborting.
const UnknownLabel = "unknown"

// Detection is a classifier verdict for one image.
type Detection struct {
	Label      string
	Confidence float64 // 0..1
}

// Classifier turns a photo into a food label. Implementations wrap an
// external model; the core only consumes this contract.
type Classifier interface {
	Classify(ctx context.Context, r io.Reader, mimeType string) (Detection, error)
}
