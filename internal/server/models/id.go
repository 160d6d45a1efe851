package models

import (
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/google/uuid"
)

// ParseID returns the canonical lower-case hyphenated form of a record id.
// Upper-case, braced, urn-prefixed and unhyphenated spellings all name the
// same row in Postgres, so ownership checks must only ever see this form.
// Anything that is not a UUID is common.ErrorNotFound.
func ParseID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id", common.ErrorNotFound)
	}
	return u.String(), nil
}
