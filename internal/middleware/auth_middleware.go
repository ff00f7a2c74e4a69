package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raduvm/ticketline/internal/auth"
	"github.com/raduvm/ticketline/internal/helpers"
	"github.com/raduvm/ticketline/internal/models"
)

// RequireRoles authenticates the bearer token and checks the principal's role
// against the operation's allowed set. Authentication failures reject with
// 401 before any business logic runs; a role mismatch rejects with 403.
func RequireRoles(gate *auth.Gate, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, authFailureMessage(err))
			c.Abort()
			return
		}

		if err := gate.Authorize(principal, allowed...); err != nil {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to access this resource.")
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get("principal")
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return "Authorization header missing."
	case errors.Is(err, auth.ErrMalformedCredential):
		return "Authorization header malformed. Expected: Bearer <token>."
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired."
	case errors.Is(err, auth.ErrRevokedToken):
		return "Token has been revoked."
	default:
		return "Invalid token."
	}
}
