// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package similarity scores texts against each other with a TF-IDF model
// fit fresh for every comparison batch.
package similarity

import (
	"errors"
	"math"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenPattern matches word runs of two or more characters, plus the
// punctuation marks that carry stylistic signal in phishing lures.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]{2,}|[!?"']`)

// ErrNoTokens is returned by Fit when no text in the corpus has a term.
var ErrNoTokens = errors.New("no tokens found in corpus")

// Vectorizer is a TF-IDF model over a single corpus. Term weights are raw
// counts scaled by smoothed inverse document frequency, and every vector is
// L2-normalized. A Vectorizer must be fit before Transform is called and is
// not meant to outlive the comparison it was fit for.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	fitted     bool
	folder     cases.Caser
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary: make(map[string]int),
		folder:     cases.Lower(language.Und),
	}
}

// Fit builds the vocabulary and IDF weights from corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range v.Tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrNoTokens
	}

	// Sorted vocabulary keeps vector layout deterministic.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.terms = terms
	v.fitted = true
	return nil
}

// Vocabulary returns the fitted terms in vector order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Dimension returns the vector length.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Transform embeds text as a dense L2-normalized TF-IDF vector. Text with no
// known terms yields the zero vector.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.fitted {
		return nil, errors.New("vectorizer not fitted")
	}
	vec := make([]float64, len(v.terms))
	for _, tok := range v.Tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	for i, count := range vec {
		if count > 0 {
			vec[i] = count * v.idf[i]
		}
	}

	norm := Norm(vec)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Tokenize lower-cases text and splits it into terms.
func (v *Vectorizer) Tokenize(text string) []string {
	return tokenPattern.FindAllString(v.folder.String(text), -1)
}
