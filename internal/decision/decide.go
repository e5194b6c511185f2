package decision

import (
	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/similarity"
)

// DefaultThreshold is the similarity at or above which two incidents are
// duplicates.
const DefaultThreshold = 0.99

// Outcome is the terminal state of one dedup check.
type Outcome string

const (
	// NoIncidents means the store query returned no incidents.
	NoIncidents Outcome = "no_incidents"
	// NoTextFields means the new incident has none of the configured text fields.
	NoTextFields Outcome = "no_text_fields"
	// TooShort means the new incident's text is below the minimum length.
	TooShort Outcome = "too_short"
	// NoDuplicate means no candidate survived filtering or was comparable.
	NoDuplicate Outcome = "no_duplicate"
	// BelowThreshold means the best candidate scored under the threshold.
	BelowThreshold Outcome = "below_threshold"
	// Duplicate means the best candidate met the threshold and the incident is closed.
	Duplicate Outcome = "duplicate"
)

// IsDuplicate reports whether the outcome closes the incident.
func (o Outcome) IsDuplicate() bool { return o == Duplicate }

// Decision is the result of comparing the best candidate to the threshold.
// Match and Similarity are set only for BelowThreshold and Duplicate.
type Decision struct {
	Outcome    Outcome
	Match      *incident.Normalized
	Similarity float64
}

// Best returns the result with the highest similarity. Ties go to the
// earliest result in input order. The bool is false for an empty slice.
func Best(results []similarity.Result) (similarity.Result, bool) {
	if len(results) == 0 {
		return similarity.Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Similarity > best.Similarity {
			best = r
		}
	}
	return best, true
}

// Decide applies the sender policy and classifies the best remaining
// candidate against threshold.
func Decide(current incident.Normalized, results []similarity.Result, policy SenderPolicy, threshold float64) Decision {
	best, ok := Best(Filter(current, results, policy))
	if !ok {
		return Decision{Outcome: NoDuplicate}
	}

	match := best.Candidate
	d := Decision{Outcome: BelowThreshold, Match: &match, Similarity: best.Similarity}
	if best.Similarity >= threshold {
		d.Outcome = Duplicate
	}
	return d
}
