package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request. Code is stable and
// machine readable; Error is for people.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes shared with the terminal client.
const (
	CodeValidation         = common.CodeValidation
	CodeDuplicateIdentity  = common.CodeDuplicateIdentity
	CodeNotApproved        = common.CodeNotApproved
	CodeInvalidCredentials = common.CodeInvalidCredentials
	CodeInvalidToken       = common.CodeInvalidToken
	CodeForbidden          = common.CodeForbidden
	CodeNotFound           = common.CodeNotFound
	CodeRateLimited        = common.CodeRateLimited
	CodeInternal           = common.CodeInternal
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Generic messages for credentials and tokens never say which part was wrong.
var errorMappings = []errorMapping{
	{common.ErrDuplicateIdentity, http.StatusConflict, CodeDuplicateIdentity, "Username or email already exists"},
	{common.ErrNotApproved, http.StatusForbidden, CodeNotApproved, "Your account is pending approval by an administrator"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials"},
	{common.ErrInvalidToken, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token"},
	{common.ErrForbidden, http.StatusForbidden, CodeForbidden, "Access denied"},
	{common.ErrorNotFound, http.StatusNotFound, CodeNotFound, "Not found"},
}

// StatusFor maps an error returned by a service to the HTTP response parts.
func StatusFor(err error) (int, ErrorResponse) {
	if errors.Is(err, common.ErrValidation) {
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeValidation}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, ErrorResponse{Error: m.message, Code: m.code}
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: CodeInternal}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeValidation})
}
