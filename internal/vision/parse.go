package vision

import (
	"strconv"
	"strings"
)

// ParseDetection parses a classifier response in the "label | confidence"
// format. Anything unparseable degrades to UnknownLabel with zero
// confidence; classification is best-effort by contract.
func ParseDetection(raw string) Detection {
	line := firstContentLine(raw)
	if line == "" {
		return Detection{Label: UnknownLabel}
	}

	parts := strings.Split(line, "|")
	label := strings.ToLower(strings.TrimSpace(parts[0]))
	if label == "" {
		return Detection{Label: UnknownLabel}
	}

	det := Detection{Label: label}
	if len(parts) >= 2 {
		conf, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || conf < 0 || conf > 1 {
			return det
		}
		det.Confidence = conf
	}
	return det
}

// firstContentLine returns the first non-empty line that is not model
// preamble.
func firstContentLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
			continue
		}
		return line
	}
	return ""
}
