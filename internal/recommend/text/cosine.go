// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package text

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyCorpus is returned when there are no documents to compare.
var ErrEmptyCorpus = errors.New("text: empty corpus")

// Matrix is a dense symmetric similarity matrix stored row-major.
type Matrix struct {
	n    int
	data []float64
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return m.n }

// At returns the similarity between documents i and j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns the similarities of document i to every document.
// The slice aliases the matrix and must not be modified.
func (m *Matrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

// Options configures Build.
type Options struct {
	MaxFeatures int
	// Workers bounds parallel row computation. Zero means GOMAXPROCS.
	Workers int
}

// Model is the output of Build.
type Model struct {
	Vocabulary *Vocabulary
	Similarity *Matrix
}

// Build vectorizes docs and computes their pairwise cosine similarity.
// The diagonal is always 1, including documents with no terms.
func Build(ctx context.Context, docs []string, opts Options) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	vocab, vectors := CountVectorizer{MaxFeatures: opts.MaxFeatures}.FitTransform(docs)
	sim, err := Cosine(ctx, vectors, opts.Workers)
	if err != nil {
		return nil, err
	}
	return &Model{Vocabulary: vocab, Similarity: sim}, nil
}

// Cosine computes the pairwise cosine similarity of vectors. Rows are
// computed concurrently; each worker owns the upper triangle of its row and
// mirrors it into the lower triangle, so no two workers write the same cell.
func Cosine(ctx context.Context, vectors []Vector, workers int) (*Matrix, error) {
	n := len(vectors)
	if n == 0 {
		return nil, ErrEmptyCorpus
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	m := &Matrix{n: n, data: make([]float64, n*n)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.data[i*n+i] = 1
			vi := vectors[i]
			for j := i + 1; j < n; j++ {
				s := cosine(vi, vectors[j])
				m.data[i*n+j] = s
				m.data[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func cosine(a, b Vector) float64 {
	if a.Norm == 0 || b.Norm == 0 {
		return 0
	}
	s := a.Dot(b) / (a.Norm * b.Norm)
	// Rounding can push identical vectors slightly past 1.
	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}
