package auth

// Identity is the authenticated caller resolved from a verified token.
type Identity struct {
	UserID string
}
