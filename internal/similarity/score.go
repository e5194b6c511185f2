package similarity

import (
	"errors"
	"fmt"

	"github.com/davetashner/phishdedup/internal/incident"
)

// Result pairs a candidate with its similarity to the new incident.
type Result struct {
	Candidate  incident.Normalized `json:"candidate"`
	Similarity float64             `json:"similarity"`
}

// Score fits a vectorizer over text and every candidate text in one batch,
// then returns the cosine similarity of text to each candidate in input
// order. Candidates whose similarity is undefined are left out.
func Score(text string, pool []incident.Normalized) ([]Result, error) {
	if len(pool) == 0 {
		return nil, nil
	}

	corpus := make([]string, 0, len(pool)+1)
	corpus = append(corpus, text)
	for _, c := range pool {
		corpus = append(corpus, c.Text)
	}

	v := NewVectorizer()
	if err := v.Fit(corpus); err != nil {
		if errors.Is(err, ErrNoTokens) {
			return nil, nil
		}
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	target, err := v.Transform(text)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(pool))
	for _, c := range pool {
		vec, err := v.Transform(c.Text)
		if err != nil {
			return nil, err
		}
		sim, ok := Cosine(target, vec)
		if !ok {
			continue
		}
		results = append(results, Result{Candidate: c, Similarity: sim})
	}
	return results, nil
}

// Pair returns the similarity of two texts under a model fit on just the two
// of them. The second result is false when either text has no terms.
func Pair(a, b string) (float64, bool, error) {
	v := NewVectorizer()
	if err := v.Fit([]string{a, b}); err != nil {
		if errors.Is(err, ErrNoTokens) {
			return 0, false, nil
		}
		return 0, false, err
	}
	va, err := v.Transform(a)
	if err != nil {
		return 0, false, err
	}
	vb, err := v.Transform(b)
	if err != nil {
		return 0, false, err
	}
	sim, ok := Cosine(va, vb)
	return sim, ok, nil
}
