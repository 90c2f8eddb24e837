// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestEventKind_Valid(t *testing.T) {
	tests := []struct {
		kind EventKind
		want bool
	}{
		{EventClick, true},
		{EventRating, true},
		{"", false},
		{"Click", false},
		{"purchase", false},
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("EventKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestRankedList_Titles(t *testing.T) {
	list := RankedList{
		{Item: Item{Title: "Heat"}},
		{Item: Item{Title: "Amelie"}},
	}
	if got, want := list.Titles(), []string{"Heat", "Amelie"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}
	if got := (RankedList{}).Titles(); len(got) != 0 {
		t.Errorf("empty Titles() = %v", got)
	}
}

func TestErrors(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		wantMsg    string
		notFound   bool
		emptyRes   bool
		dataErr    bool
		wrapsStore bool
	}{
		{
			name:     "not found",
			err:      &NotFoundError{Kind: "title", Key: "Heat"},
			wantMsg:  `recommend: title "Heat" not found`,
			notFound: true,
		},
		{
			name:     "empty result",
			err:      &EmptyResultError{Query: `genre "Western"`},
			wantMsg:  `recommend: no items match genre "Western"`,
			emptyRes: true,
		},
		{
			name:    "data error",
			err:     &DataError{Reason: "catalog is empty"},
			wantMsg: "recommend: catalog is empty",
			dataErr: true,
		},
		{
			name:       "wrapped data error",
			err:        fmt.Errorf("refresh: %w", &DataError{Reason: "load catalog", Err: storeErr}),
			wantMsg:    "refresh: recommend: load catalog: connection refused",
			dataErr:    true,
			wrapsStore: true,
		},
		{
			name:    "unavailable",
			err:     ErrDataUnavailable,
			wantMsg: "recommend: no snapshot loaded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsEmptyResult(tt.err); got != tt.emptyRes {
				t.Errorf("IsEmptyResult() = %v, want %v", got, tt.emptyRes)
			}
			if got := IsDataError(tt.err); got != tt.dataErr {
				t.Errorf("IsDataError() = %v, want %v", got, tt.dataErr)
			}
			if got := errors.Is(tt.err, storeErr); got != tt.wrapsStore {
				t.Errorf("errors.Is(store) = %v, want %v", got, tt.wrapsStore)
			}
		})
	}
}
