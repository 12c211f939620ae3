package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plateful/plateful/internal/application"
)

// Route classes for the guard. Protected routes require a session;
// public-only routes bounce authenticated users back to the dashboard.
var (
	protectedRoutes  = []string{"/dashboard", "/recipes/new", "/profile"}
	publicOnlyRoutes = []string{"/login", "/signup"}
)

// CtxUserKey holds the resolved *entity.User for downstream handlers.
const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "currentUser"
)

func isProtected(path string) bool {
	for _, r := range protectedRoutes {
		if path == r || strings.HasPrefix(path, r+"/") {
			return true
		}
	}
	return false
}

func isPublicOnly(path string) bool {
	for _, r := range publicOnlyRoutes {
		if path == r {
			return true
		}
	}
	return false
}

func isExcluded(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/assets/") ||
		path == "/favicon.ico" ||
		strings.HasSuffix(path, ".png")
}

// RouteGuard enforces the route policy on every page request and
// refreshes the session cookie as a side effect. API routes and static
// assets are carved out. The cookie is refreshed only when the request
// proceeds, never on a redirect, and a store failure during session
// resolution degrades to "no session" rather than an error response.
func RouteGuard(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isExcluded(path) {
			c.Next()
			return
		}

		user := sessions.Current(c)

		if isProtected(path) && user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if user != nil && isPublicOnly(path) {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		if user != nil {
			sessions.Refresh(c)
			c.Set(CtxUserIDKey, user.ID)
			c.Set(CtxUserKey, user)
		}
		c.Next()
	}
}
