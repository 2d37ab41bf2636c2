package constants

import "time"

const (
	// ContextKeyIdentity is the gin context key holding the authenticated identity.
	ContextKeyIdentity = "identity"
	// ContextKeyTaskID is the gin context key holding the parsed task ID.
	ContextKeyTaskID = "task_id"

	// AuthorizationHeader carries the bearer token.
	AuthorizationHeader = "Authorization"
	// BearerScheme is the expected authorization scheme.
	BearerScheme = "Bearer"

	// TokenTTL is the fixed lifetime of an issued token.
	TokenTTL = time.Hour

	// DueDateLayout is the calendar date format used on the wire.
	DueDateLayout = "2006-01-02"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72
