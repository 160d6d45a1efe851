package metadata

import (
	"context"
	"fmt"
	"time"
)

const (
	keyToken     = "session.token"
	keyUsername  = "session.username"
	keyExpiresAt = "session.expires_at"
)

// Session is the login state the CLI keeps between runs.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SaveSession writes all session keys. Run it inside dbx.WithTx when the
// writes must land together.
func SaveSession(ctx context.Context, r Repository, s Session) error {
	if err := r.Put(ctx, keyToken, s.Token); err != nil {
		return err
	}
	if err := r.Put(ctx, keyUsername, s.Username); err != nil {
		return err
	}
	return r.Put(ctx, keyExpiresAt, s.ExpiresAt.UTC().Format(time.RFC3339))
}

// LoadSession returns the stored session, or nil when no token is stored.
func LoadSession(ctx context.Context, r Repository) (*Session, error) {
	token, ok, err := r.Get(ctx, keyToken)
	if err != nil || !ok {
		return nil, err
	}
	username, _, err := r.Get(ctx, keyUsername)
	if err != nil {
		return nil, err
	}
	raw, _, err := r.Get(ctx, keyExpiresAt)
	if err != nil {
		return nil, err
	}

	expires, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("session expiry %q: %w", raw, err)
	}
	return &Session{Token: token, Username: username, ExpiresAt: expires}, nil
}

func ClearSession(ctx context.Context, r Repository) error {
	return r.Delete(ctx, keyToken, keyUsername, keyExpiresAt)
}
