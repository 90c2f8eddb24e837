// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package text

import (
	"math"
	"sort"
)

// Vector is a sparse term-count vector. Indices are ascending.
type Vector struct {
	Indices []int
	Counts  []float64
	Norm    float64
}

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Counts[i] * o.Counts[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vocabulary maps terms to column indices. Terms are stored in lexicographic
// order so the layout does not depend on map iteration.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Term returns the term at column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Index returns the column of term, or false when it was pruned.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// CountVectorizer turns documents into unigram and bigram count vectors.
type CountVectorizer struct {
	// MaxFeatures keeps only the most frequent terms across the corpus.
	// Zero keeps all terms. Ties are broken by the lexicographically
	// smaller term.
	MaxFeatures int
}

// FitTransform learns the vocabulary from docs and returns one vector per doc.
func (cv CountVectorizer) FitTransform(docs []string) (*Vocabulary, []Vector) {
	docTerms := make([][]string, len(docs))
	freq := make(map[string]int)
	for i, d := range docs {
		terms := Terms(d)
		docTerms[i] = terms
		for _, t := range terms {
			freq[t]++
		}
	}

	vocab := cv.buildVocabulary(freq)

	vectors := make([]Vector, len(docs))
	for i, terms := range docTerms {
		vectors[i] = vectorize(vocab, terms)
	}
	return vocab, vectors
}

func (cv CountVectorizer) buildVocabulary(freq map[string]int) *Vocabulary {
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}

	if cv.MaxFeatures > 0 && len(terms) > cv.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			fi, fj := freq[terms[i]], freq[terms[j]]
			if fi != fj {
				return fi > fj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:cv.MaxFeatures]
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index}
}

func vectorize(vocab *Vocabulary, terms []string) Vector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if col, ok := vocab.index[t]; ok {
			counts[col]++
		}
	}

	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Counts:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		v.Indices = append(v.Indices, col)
	}
	sort.Ints(v.Indices)

	var sq float64
	for _, col := range v.Indices {
		c := counts[col]
		v.Counts = append(v.Counts, c)
		sq += c * c
	}
	v.Norm = math.Sqrt(sq)
	return v
}
