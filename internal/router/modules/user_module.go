package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/plateful/plateful/internal/application"
	handlers "github.com/plateful/plateful/internal/interface/http"
	"github.com/plateful/plateful/internal/interface/middleware"
)

// UserModule wires profile endpoints.
// Protected: GET /api/profile, PUT /api/profile
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions *application.SessionService
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, sessions *application.SessionService, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
