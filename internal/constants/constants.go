package constants

const (
	// ContextKeyUser is the gin context key holding the authenticated user.
	ContextKeyUser = "current_user"

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 6
)

// Pagination defaults for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
