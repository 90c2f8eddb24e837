// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/giuliagiacomodonato/dcicflix/internal/validation"
)

// Opinion event types.
const (
	TypeClick  = "click"
	TypeRating = "rating"
)

// ID accepts both JSON strings and numbers, since publishers send movie ids
// either way.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*id = ID(data)
	return nil
}

// OpinionEvent is a click or rating published by the opinions service.
type OpinionEvent struct {
	UserID     ID        `json:"userId" validate:"required,max=128,nocontrol"`
	MovieID    ID        `json:"movieId" validate:"required,max=128,nocontrol"`
	MovieTitle string    `json:"movieTitle,omitempty" validate:"max=512"`
	Type       string    `json:"type,omitempty" validate:"omitempty,oneof=click rating"`
	Rating     *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Source     string    `json:"source,omitempty" validate:"max=64"`
}

// Kind returns the event type, defaulting to click.
func (e *OpinionEvent) Kind() string {
	if e.Type == "" {
		return TypeClick
	}
	return e.Type
}

// Validate checks field constraints. Ratings come in half-star steps and
// only rating events may carry one.
func (e *OpinionEvent) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return verr
	}
	if e.Rating == nil {
		return nil
	}
	if e.Kind() != TypeRating {
		return fmt.Errorf("rating is only allowed on rating events")
	}
	if r := *e.Rating * 2; r != math.Round(r) {
		return fmt.Errorf("rating must be a multiple of 0.5, got %v", *e.Rating)
	}
	return nil
}

// DecodeOpinionEvent parses and validates a message payload.
func DecodeOpinionEvent(payload []byte) (OpinionEvent, error) {
	var ev OpinionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return OpinionEvent{}, fmt.Errorf("decode opinion event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return OpinionEvent{}, fmt.Errorf("invalid opinion event: %w", err)
	}
	return ev, nil
}
