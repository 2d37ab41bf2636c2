package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logging"
)

// TokenVerifier resolves a bearer token to its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity in the context. The user record is not re-fetched.
func RequireAuth(tokens TokenVerifier, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.AuthorizationHeader))
		if !ok {
			log.Debug(c.Request.Context(), "missing bearer token", "path", c.Request.URL.Path)
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			log.Warn(c.Request.Context(), "rejected bearer token", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, auth.Identity{UserID: subject})
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return auth.Identity{}, false
	}

	identity, ok := value.(auth.Identity)
	if !ok || identity.UserID == "" {
		return auth.Identity{}, false
	}
	return identity, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
