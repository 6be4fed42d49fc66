// Package middleware provides the Gin adapters an external router
// mounts to enforce Gateward's access tiers.
package middleware

import (
	"net/http"

	"github.com/gateward/gateward/internal/auth"
	"github.com/gateward/gateward/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

const (
	// TokenContextKey is the context key for the authenticated session token.
	TokenContextKey ContextKey = "token"
	// OrgParam is the route parameter carrying the organization name.
	OrgParam = "org"
)

// RequireOrganization returns a Gin middleware that rejects requests
// addressed to an organization not present in the tenant directory.
// Unknown tenants get a plain not-found, revealing nothing further.
func RequireOrganization(guard *auth.Guard, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "org_middleware").Logger()

	return func(c *gin.Context) {
		name := c.Param(OrgParam)
		if !guard.IsValidOrganization(name) {
			log.Debug().Str("organization", name).Str("path", c.Request.URL.Path).Msg("unknown organization")
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Next()
	}
}

// RequireSameTenant returns a Gin middleware that requires an
// authenticated session whose principal belongs to the addressed
// organization. Must run inside RequireOrganization.
func RequireSameTenant(sessions *auth.SessionStore, guard *auth.Guard, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "tenant_middleware").Logger()

	return func(c *gin.Context) {
		token := sessions.Token(c.Request)
		if token == nil {
			// Save the target so login can route back to it afterwards.
			if err := sessions.SavePath(c.Request, c.Writer, c.Request.URL.Path); err != nil {
				log.Warn().Err(err).Msg("failed to save target path")
			}
			log.Debug().Str("path", c.Request.URL.Path).Msg("unauthenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		name := c.Param(OrgParam)
		if !guard.IsOwnOrganization(token, name) {
			log.Debug().
				Str("organization", name).
				Str("principal_organization", token.Organization).
				Msg("cross-tenant request rejected")
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.Set(string(TokenContextKey), token)
		c.Next()
	}
}

// RequireFreshCredentials returns a Gin middleware that blocks
// principals flagged as needing a credential change. Must run inside
// RequireSameTenant.
func RequireFreshCredentials(guard *auth.Guard, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "credentials_middleware").Logger()

	return func(c *gin.Context) {
		token := GetToken(c)
		if !guard.CredentialsOkay(token) {
			log.Debug().Str("path", c.Request.URL.Path).Msg("credential change required")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "credential change required"})
			return
		}
		c.Next()
	}
}

// GetToken retrieves the authenticated session token from the Gin
// context. Returns nil if no token is present.
func GetToken(c *gin.Context) *models.SessionToken {
	value, exists := c.Get(string(TokenContextKey))
	if !exists {
		return nil
	}
	token, ok := value.(*models.SessionToken)
	if !ok {
		return nil
	}
	return token
}
