// Package auth issues and verifies stateless session tokens.
package auth

import (
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultValidity is the session lifetime when none is configured.
const DefaultValidity = 24 * time.Hour

// Claims embeds the registered claims plus the session identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string      `json:"accountId"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
}

// Identity is the verified content of a session token.
type Identity struct {
	AccountID string
	Username  string
	Role      models.Role
	ExpiresAt time.Time
}

var timeNow = time.Now

func GenerateToken(acc *models.Account, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	now := timeNow()
	exp := now.Add(validityDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AccountID: acc.ID,
		Username:  acc.Username,
		Role:      acc.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, exp, nil
}

// ParseToken validates signature and expiry. Every failure is reported as
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.AccountID == "" || !claims.Role.Valid() {
		return nil, common.ErrInvalidToken
	}

	return &Identity{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
