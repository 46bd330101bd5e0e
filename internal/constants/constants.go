package constants

// Pagination bounds for list endpoints.
const (
	MinPage         = 1
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// MaxNameLength bounds task titles and project names.
const MaxNameLength = 255

// ContextKeyUserID is the gin context key holding the authenticated user's ID.
const ContextKeyUserID = "user_id"

// ContextKeyRequestID is the gin context key holding the per-request ID.
const ContextKeyRequestID = "request_id"
