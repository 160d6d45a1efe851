package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

type Concert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ConcertInput carries client-supplied concert fields. On update, nil fields
// keep their stored values.
type ConcertInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	IsPublic    *bool      `json:"isPublic"`
}

// Apply copies the non-nil fields onto c.
func (in *ConcertInput) Apply(c *Concert) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Date != nil {
		c.Date = *in.Date
	}
	if in.Location != nil {
		c.Location = *in.Location
	}
	if in.IsPublic != nil {
		c.IsPublic = *in.IsPublic
	}
}

func (c *Concert) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	return nil
}
