// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 6
)

// Account is a registered choir member or administrator.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	VoicePart    VoicePart
	Phone        string
	Role         Role
	Approved     bool
	CreatedAt    time.Time
}

// CanAuthenticate reports whether the account may log in. Admins are always
// treated as approved, whatever their stored flag says.
func (a *Account) CanAuthenticate() bool {
	return a.Role == RoleAdmin || a.Approved
}

// IsPending reports whether the account is still waiting for approval.
func (a *Account) IsPending() bool {
	return !a.CanAuthenticate()
}

// Public returns the projection of the account that is safe to send to clients.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		VoicePart:  a.VoicePart,
		Phone:      a.Phone,
		Role:       a.Role,
		IsApproved: a.CanAuthenticate(),
		CreatedAt:  a.CreatedAt,
	}
}

// DirectoryEntry returns the reduced projection members see of each other.
func (a *Account) DirectoryEntry() *DirectoryEntry {
	return &DirectoryEntry{
		ID:        a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		VoicePart: a.VoicePart,
	}
}

// PublicAccount never carries the credential.
type PublicAccount struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	VoicePart  VoicePart `json:"voicePart,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       Role      `json:"role"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

type DirectoryEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	VoicePart VoicePart `json:"voicePart,omitempty"`
}

// Registration is the registration intake before hashing.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	VoicePart string
	Phone     string
}

// Normalize trims whitespace and lower-cases the email.
func (r *Registration) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
}

// Validate checks the registration intake. Errors wrap common.ErrValidation.
func (r *Registration) Validate() error {
	if err := ValidateUsername(r.Username); err != nil {
		return err
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	if r.FirstName == "" {
		return fmt.Errorf("%w: first name is required", common.ErrValidation)
	}
	if r.LastName == "" {
		return fmt.Errorf("%w: last name is required", common.ErrValidation)
	}
	if _, ok := ParseVoicePart(r.VoicePart); !ok {
		return fmt.Errorf("%w: unknown voice part %q", common.ErrValidation, r.VoicePart)
	}
	return nil
}

// ValidateUsername checks that a username is 3-32 ASCII alphanumeric,
// underscore, dot or hyphen characters.
func ValidateUsername(name string) error {
	if len(name) < MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", common.ErrValidation, MinUsernameLength)
	}
	if len(name) > MaxUsernameLength {
		return fmt.Errorf("%w: username must not exceed %d characters", common.ErrValidation, MaxUsernameLength)
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("%w: username may only contain letters, digits, '.', '_' or '-'", common.ErrValidation)
		}
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: valid email required", common.ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}
	return nil
}

// AccountPatch is a sparse update. Nil fields are left untouched.
type AccountPatch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	VoicePart    *VoicePart
	Phone        *string
	Role         *Role
	Approved     *bool
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p *AccountPatch) Empty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil && p.VoicePart == nil &&
		p.Phone == nil && p.Role == nil && p.Approved == nil && p.PasswordHash == nil
}

// ProfileUpdate is the self-service subset of AccountPatch as received from a client.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	VoicePart *string
	Phone     *string
}

// Patch validates the update and converts it to an AccountPatch.
func (u *ProfileUpdate) Patch() (*AccountPatch, error) {
	p := &AccountPatch{}

	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		p.Email = &email
	}
	if u.FirstName != nil {
		v := strings.TrimSpace(*u.FirstName)
		if v == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", common.ErrValidation)
		}
		p.FirstName = &v
	}
	if u.LastName != nil {
		v := strings.TrimSpace(*u.LastName)
		if v == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", common.ErrValidation)
		}
		p.LastName = &v
	}
	if u.VoicePart != nil {
		v, ok := ParseVoicePart(*u.VoicePart)
		if !ok {
			return nil, fmt.Errorf("%w: unknown voice part %q", common.ErrValidation, *u.VoicePart)
		}
		p.VoicePart = &v
	}
	if u.Phone != nil {
		v := strings.TrimSpace(*u.Phone)
		p.Phone = &v
	}

	if p.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", common.ErrValidation)
	}
	return p, nil
}
