package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// Client is the API surface the terminal client needs.
type Client interface {
	// SetToken replaces the bearer token sent on authenticated calls.
	// An empty token sends none.
	SetToken(token string)
	Ping(ctx context.Context) error

	Register(ctx context.Context, req RegisterRequest) (*models.PublicAccount, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Me(ctx context.Context) (*models.PublicAccount, error)
	ChangePassword(ctx context.Context, current, next string) error

	ListMembers(ctx context.Context) ([]models.PublicAccount, error)
	ListPending(ctx context.Context) ([]models.PublicAccount, error)
	Approve(ctx context.Context, id string) (*models.PublicAccount, error)
	Reject(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id string, role models.Role) (*models.PublicAccount, error)
	DeleteMember(ctx context.Context, id string) error

	CreateRecording(ctx context.Context, in models.RecordingInput) (*models.RecordingUpload, error)
	CompleteRecording(ctx context.Context, id string) (*models.Recording, error)
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	VoicePart string `json:"voicePart,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Session is what a successful login returns.
type Session struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Account   *models.PublicAccount `json:"user"`
}
