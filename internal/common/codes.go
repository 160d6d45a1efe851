package common

// Machine readable error codes carried in API error bodies. The server picks
// one per failed request and the terminal client maps it back to a sentinel.
const (
	CodeValidation         = "validation"
	CodeDuplicateIdentity  = "duplicate_identity"
	CodeNotApproved        = "not_approved"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal"
)
