package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow/internal/models"
)

// Context keys set by RequireUser for downstream handlers.
const (
	CtxMember = "session.member"
	CtxRole   = "session.role"
)

type Guard struct {
	Secret []byte
	Auth   *Authenticator
}

// RequireUser validates the session token and re-resolves the member record
// behind it. Requests whose member no longer exists are rejected, which is
// what discards a stale persisted identity.
func (g *Guard) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

			return
		}

		memberID, err := ParseToken(g.Secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})

			return
		}

		member, err := g.Auth.Resolve(c.Request.Context(), memberID)
		if err != nil {
			if errors.Is(err, ErrSessionExpired) {
				c.SetCookie(CookieName, "", -1, "/", "", false, true)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})

				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "could not verify session"})

			return
		}

		// Put identity into context for handlers
		c.Set(CtxMember, member)
		c.Set(CtxRole, member.Role)

		c.Next()
	}
}

// RequireAdmin gates member management. It assumes RequireUser already ran.
func (g *Guard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxRole)
		if !ok || role.(models.Role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})

			return
		}

		c.Next()
	}
}

// CurrentMember returns the member RequireUser resolved for this request.
func CurrentMember(c *gin.Context) (models.TeamMember, bool) {
	v, ok := c.Get(CtxMember)
	if !ok {
		return models.TeamMember{}, false
	}
	member, ok := v.(models.TeamMember)

	return member, ok
}

// --- helpers ---

func extractToken(c *gin.Context) (string, error) {
	// 1) session cookie set at login
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	// 2) Authorization: Bearer <token>
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:]), nil
	}

	return "", errors.New("missing session token")
}
