// Package pool turns raw incident records into the normalized candidate set
// the similarity engine compares against.
package pool

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/normalize"
	"github.com/davetashner/phishdedup/internal/sender"
)

// DefaultMinTextLength is the shortest normalized text worth comparing.
const DefaultMinTextLength = 50

// Fields names the record keys holding the email parts.
type Fields struct {
	Subject  string `yaml:"subject" toml:"subject" json:"subject"`
	Body     string `yaml:"body" toml:"body" json:"body"`
	HTMLBody string `yaml:"html_body" toml:"html_body" json:"html_body"`
	From     string `yaml:"from" toml:"from" json:"from"`
}

// DefaultFields returns the stock phishing incident field names.
func DefaultFields() Fields {
	return Fields{
		Subject:  "emailsubject",
		Body:     "emailbody",
		HTMLBody: "emailbodyhtml",
		From:     "emailfrom",
	}
}

// Text returns the field names that carry comparable text, in the order
// they are reported to users.
func (f Fields) Text() []string {
	return []string{f.Body, f.HTMLBody, f.Subject}
}

// Builder normalizes records into candidates.
type Builder struct {
	Fields        Fields
	MinTextLength int
}

// DataError reports a record that could not be normalized.
type DataError struct {
	Index int
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Normalize builds the comparison view of one record. The bool result is
// false when the normalized text is shorter than the minimum, in which case
// id and timestamp are not inspected.
func (b Builder) Normalize(rec incident.Record) (incident.Normalized, bool, error) {
	flat := rec.Flatten()

	text := normalize.Text(
		flat.Field(b.Fields.Subject),
		flat.Field(b.Fields.Body),
		flat.Field(b.Fields.HTMLBody),
	)
	if utf8.RuneCountInString(text) < b.MinTextLength {
		return incident.Normalized{}, false, nil
	}

	id, err := flat.ID()
	if err != nil {
		return incident.Normalized{}, false, err
	}
	created, err := flat.Created()
	if err != nil {
		return incident.Normalized{}, false, fmt.Errorf("incident %s: %w", id, err)
	}

	from := strings.TrimSpace(flat.Field(b.Fields.From).String())
	return incident.Normalized{
		ID:           id,
		Created:      created,
		Text:         text,
		Sender:       from,
		SenderDomain: sender.Domain(from),
	}, true, nil
}

// Build normalizes every record, dropping the ones below the minimum text
// length. Arrival order is preserved. The first malformed record aborts the
// batch with a *DataError.
func (b Builder) Build(records []incident.Record) ([]incident.Normalized, error) {
	out := make([]incident.Normalized, 0, len(records))
	for i, rec := range records {
		n, ok, err := b.Normalize(rec)
		if err != nil {
			return nil, &DataError{Index: i, Err: err}
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// ExcludeID drops candidates with the given id.
func ExcludeID(pool []incident.Normalized, id string) []incident.Normalized {
	out := make([]incident.Normalized, 0, len(pool))
	for _, c := range pool {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// ExcludeNotBefore keeps only candidates created strictly before t.
func ExcludeNotBefore(pool []incident.Normalized, t time.Time) []incident.Normalized {
	out := make([]incident.Normalized, 0, len(pool))
	for _, c := range pool {
		if c.Created.Before(t) {
			out = append(out, c)
		}
	}
	return out
}

// Candidates applies the self and temporal filters for current.
func Candidates(pool []incident.Normalized, current incident.Normalized) []incident.Normalized {
	return ExcludeNotBefore(ExcludeID(pool, current.ID), current.Created)
}
