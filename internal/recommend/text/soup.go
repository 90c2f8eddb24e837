// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package text

import (
	"strings"
	"unicode"
)

// Document holds the fields of a catalog item that feed its feature text.
type Document struct {
	Title     string
	Genres    []string
	Directors []string
	Cast      []string
	Plot      string
}

// Soup concatenates a document's fields into one string for vectorizing.
// Director and cast names are collapsed into single tokens ("Tom Hanks"
// becomes "tomhanks") so people match as a unit. Only the first topCast
// cast members are used; topCast <= 0 keeps the whole cast.
func Soup(d Document, topCast int) string {
	cast := d.Cast
	if topCast > 0 && len(cast) > topCast {
		cast = cast[:topCast]
	}

	parts := make([]string, 0, 2+len(d.Genres)+len(d.Directors)+len(cast))
	parts = append(parts, d.Title)
	parts = append(parts, d.Genres...)
	for _, name := range d.Directors {
		parts = append(parts, CollapseName(name))
	}
	for _, name := range cast {
		parts = append(parts, CollapseName(name))
	}
	parts = append(parts, d.Plot)

	return strings.Join(nonEmpty(parts), " ")
}

// CollapseName lowercases a person name and removes all whitespace.
func CollapseName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
