// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package text

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it into runs of two or more word
// characters (letters, digits, underscore). Everything else separates tokens.
func Tokenize(s string) []string {
	s = strings.ToLower(s)

	var tokens []string
	start, runes := -1, 0
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start, runes = i, 0
			}
			runes++
			continue
		}
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, s[start:i])
		}
		start = -1
	}
	if start >= 0 && runes >= 2 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// Terms returns the unigrams and adjacent bigrams of s after stop words are
// removed. Bigrams join their words with a single space.
func Terms(s string) []string {
	words := Tokenize(s)
	kept := words[:0]
	for _, w := range words {
		if !IsStopWord(w) {
			kept = append(kept, w)
		}
	}

	if len(kept) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(kept)-1)
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
