package dedup

import (
	"fmt"
	"strings"

	"github.com/davetashner/phishdedup/internal/decision"
)

// Result is the observable outcome of one check.
type Result struct {
	Outcome    decision.Outcome `json:"outcome"`
	IncidentID string           `json:"incident_id,omitempty"`
	MatchID    string           `json:"match_id,omitempty"`
	Similarity float64          `json:"similarity"`
	Threshold  float64          `json:"threshold"`
	Queried    int              `json:"queried"`
	Compared   int              `json:"compared"`
	CommandID  string           `json:"command_id,omitempty"`
	// TextFields lists the field names that were looked for when the
	// outcome is NoTextFields.
	TextFields []string `json:"text_fields,omitempty"`
}

// Message renders the human-readable verdict.
func (r *Result) Message() string {
	switch r.Outcome {
	case decision.NoTextFields:
		return fmt.Sprintf("No text fields were found within this incident: %s.\nIncident will be created.",
			strings.Join(r.TextFields, ","))
	case decision.TooShort:
		return "Incident text after preprocessing is too short for deduplication. Incident will be created."
	case decision.BelowThreshold:
		return fmt.Sprintf("No duplicate incident found.\n"+
			"Most similar incident found is #%s with similarity of %.1f%%.\n"+
			"The threshold for considering 2 incidents as duplicate is a similarity of %.1f%%.\n"+
			"Thus these 2 incidents will not be considered as duplicate and current incident will be created.",
			r.MatchID, r.Similarity*100, r.Threshold*100)
	case decision.Duplicate:
		return fmt.Sprintf("Duplicate incidents found: #%s, #%s with similarity of %.1f%%. "+
			"This incident will be closed and linked to %s.",
			r.IncidentID, r.MatchID, r.Similarity*100, r.MatchID)
	default:
		return "No duplicate incident found"
	}
}
