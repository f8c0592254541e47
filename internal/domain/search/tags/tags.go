// Package tags turns classifier output into search labels and label
// predicates.
package tags

import (
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/filter"
)

// MinConfidence is the exclusive confidence threshold a concept must exceed.
const MinConfidence = 0.5

// Concept is one (label, confidence) pair reported by the classifier.
type Concept struct {
	Label      string  `json:"name"`
	Confidence float64 `json:"value"`
}

// Extract keeps concepts above MinConfidence and returns their trimmed
// labels, deduplicated case-insensitively in first-seen order.
// An empty result is valid.
func Extract(concepts []Concept) []string {
	seen := make(map[string]struct{}, len(concepts))
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if c.Confidence <= MinConfidence {
			continue
		}
		label := strings.TrimSpace(c.Label)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Expand turns every label into two alternatives: cuisines contains label,
// name contains label. The tag predicate is the OR of all of them.
// Labels beyond the filter group capacity are dropped.
func Expand(labels []string) []filter.Condition {
	out := make([]filter.Condition, 0, 2*len(labels))
	for _, label := range labels {
		if len(out)+2 > filter.MaxConditionsPerGroup {
			break
		}
		byCuisine, err := filter.NewContains(restaurant.FieldCuisines, label)
		if err != nil {
			continue
		}
		byName, err := filter.NewContains(restaurant.FieldName, label)
		if err != nil {
			continue
		}
		out = append(out, byCuisine, byName)
	}
	return out
}
