package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/plateful/plateful/internal/application"
	handlers "github.com/plateful/plateful/internal/interface/http"
	"github.com/plateful/plateful/internal/interface/middleware"
)

// AuthModule wires the auth flow endpoints.
// Public: POST /api/signup, /api/login, /api/verify-otp
// Protected: POST /api/logout
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions *application.SessionService
	Redis    *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, sessions *application.SessionService, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Tight per-IP limits on credential endpoints
	signUpLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signInLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signUpLimiter, m.Handler.SignUp)
	rg.POST("/login", signInLimiter, m.Handler.SignIn)
	rg.POST("/verify-otp", verifyLimiter, m.Handler.VerifyOTP)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	{
		auth.POST("/logout", m.Handler.SignOut)
	}
}
