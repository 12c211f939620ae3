package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/pkg/response"
)

// RequireSession guards API endpoints. Unlike the page-level RouteGuard
// it answers 401 instead of redirecting. Sets userID and currentUser in
// the Gin context on success.
func RequireSession(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessions.Current(c)
		if user == nil {
			response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserKey, user)
		c.Next()
	}
}
