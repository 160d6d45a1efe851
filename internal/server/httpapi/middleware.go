package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/auth"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	identityKey  = "identity"
	requestIDKey = "request_id"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Identity, error)
}

// Authenticate reads an optional bearer token. Requests without one continue
// anonymously; a token that is present but invalid is rejected.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(common.AuthorizationHeaderName))
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
			abortInvalidToken(c)
			return
		}

		id, err := v.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			abortInvalidToken(c)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required", Code: CodeInvalidToken})
			return
		}
		c.Next()
	}
}

// CanonicalID rewrites the :id path parameter to the canonical UUID form
// before any handler sees it. Ids that are not UUIDs get a 404.
func CanonicalID() gin.HandlerFunc {
	return func(c *gin.Context) {
		for i, p := range c.Params {
			if p.Key != "id" {
				continue
			}
			id, err := models.ParseID(p.Value)
			if err != nil {
				status, body := StatusFor(err)
				c.AbortWithStatusJSON(status, body)
				return
			}
			c.Params[i].Value = id
		}
		c.Next()
	}
}

func abortInvalidToken(c *gin.Context) {
	_, body := StatusFor(common.ErrInvalidToken)
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

func authIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// RequestLogger logs every request with its latency and a request id, which
// is taken from X-Request-ID when the client sent one.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(common.RequestIDHeaderName))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(common.RequestIDHeaderName, requestID)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", requestID,
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id := authIdentity(c); id != nil {
			args = append(args, "account_id", id.AccountID)
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.Error(ctx, "http_request", args...)
		case status >= 400:
			log.Warn(ctx, "http_request", args...)
		default:
			log.Info(ctx, "http_request", args...)
		}
	}
}

// Recovery turns a panic into a 500 response and logs it.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: CodeInternal})
	})
}
