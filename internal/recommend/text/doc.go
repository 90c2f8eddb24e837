// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package text builds the content-similarity matrix for the catalog.
//
// Each item is reduced to a "soup" of title, genres, collapsed director and
// cast names, and plot. Soups are tokenized, English stop words are dropped,
// and unigram plus bigram counts are kept for the most frequent terms.
// Similarity is the cosine of the count vectors.
package text
