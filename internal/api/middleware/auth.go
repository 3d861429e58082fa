package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

// Context keys set by SessionAuth
const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Authenticator resolves a session token to its account
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// SessionAuth requires a valid session cookie.
// Anonymous or expired sessions are sent to /login; a rejected cookie is
// expired with the same attributes it was issued with.
func SessionAuth(auth Authenticator, cookie config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrSessionInvalid) {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(cookie.SameSiteMode())
			c.SetCookie(cookie.Name, "", -1, "/", cookie.Domain, cookie.Secure, true)
			web.SetFlash(c, web.Flash{Error: err.Error()})
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.RoleName())

		c.Next()
	}
}

// RoleAuth allows Administrator plus any of allowedRoles
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextUser)
		user, ok := v.(*model.User)
		if !exists || !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if user.IsAdministrator() || user.HasRole(allowedRoles...) {
			c.Next()
			return
		}

		web.SetFlash(c, web.Flash{Error: "You are not allowed to access that page."})
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}
