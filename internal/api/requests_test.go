// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIntParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"n=3", 3, false},
		{"n=%2015%20", 15, false},
		{"n=-1", -1, false},
		{"n=3.5", 0, true},
		{"n=ten", 0, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		got, err := intParam(req, "n", 7)
		if (err != nil) != tt.wantErr {
			t.Errorf("intParam(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("intParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestBoolParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		def     bool
		want    bool
		wantErr bool
	}{
		{"", true, true, false},
		{"", false, false, false},
		{"b=false", true, false, false},
		{"b=1", false, true, false},
		{"b=TRUE", false, true, false},
		{"b=yes", false, false, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		got, err := boolParam(req, "b", tt.def)
		if (err != nil) != tt.wantErr {
			t.Errorf("boolParam(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("boolParam(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/x?b=maybe", nil)
	if _, err := boolParam(req, "b", true); err == nil || err.Error() != `b must be a boolean, got "maybe"` {
		t.Errorf("Unexpected error message: %v", err)
	}
}
