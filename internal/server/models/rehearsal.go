package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

const DefaultRehearsalMinutes = 120

type Rehearsal struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

type RehearsalInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Date            *time.Time `json:"date"`
	Location        *string    `json:"location"`
	DurationMinutes *int       `json:"durationMinutes"`
}

func (in *RehearsalInput) Apply(r *Rehearsal) {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Date != nil {
		r.Date = *in.Date
	}
	if in.Location != nil {
		r.Location = *in.Location
	}
	if in.DurationMinutes != nil {
		r.DurationMinutes = *in.DurationMinutes
	}
}

func (r *Rehearsal) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", common.ErrValidation)
	}
	return nil
}
