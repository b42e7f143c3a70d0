package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetection(t *testing.T) {
	det := ParseDetection("milk | 0.95")
	assert.Equal(t, "milk", det.Label)
	assert.InDelta(t, 0.95, det.Confidence, 1e-9)
}

func TestParseDetectionNormalizesLabel(t *testing.T) {
	det := ParseDetection("  Chicken Wings | 0.8")
	assert.Equal(t, "chicken wings", det.Label)
}

func TestParseDetectionSkipsPreamble(t *testing.T) {
	det := ParseDetection("Here is what I found:\nsteak | 0.7")
	assert.Equal(t, "steak", det.Label)
	assert.InDelta(t, 0.7, det.Confidence, 1e-9)
}

func TestParseDetectionMissingConfidence(t *testing.T) {
	det := ParseDetection("pizza")
	assert.Equal(t, "pizza", det.Label)
	assert.Zero(t, det.Confidence)
}

func TestParseDetectionOutOfRangeConfidence(t *testing.T) {
	det := ParseDetection("pizza | 95")
	assert.Equal(t, "pizza", det.Label)
	assert.Zero(t, det.Confidence, "confidence outside 0..1 is discarded")
}

func TestParseDetectionEmptyDegradesToUnknown(t *testing.T) {
	assert.Equal(t, Detection{Label: UnknownLabel}, ParseDetection(""))
	assert.Equal(t, Detection{Label: UnknownLabel}, ParseDetection("   \n  "))
	assert.Equal(t, Detection{Label: UnknownLabel}, ParseDetection("| 0.5"))
}
