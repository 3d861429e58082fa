package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/api/middleware"
	"github.com/brandon3sican/to-system/internal/model"
)

// MustGetUser signed-in account placed by SessionAuth.
// On false the request was already redirected; the caller should return.
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextUser)
	user, ok := v.(*model.User)
	if !exists || !ok || user == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil, false
	}
	return user, true
}

// MustGetUserID id of the signed-in account
func MustGetUserID(c *gin.Context) (string, bool) {
	user, ok := MustGetUser(c)
	if !ok {
		return "", false
	}
	return user.ID, true
}
