package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/plateful/plateful/internal/application"
	handlers "github.com/plateful/plateful/internal/interface/http"
	"github.com/plateful/plateful/internal/interface/middleware"
)

// RecipeModule wires the marketplace endpoints.
// Public: GET /api/recipes, GET /api/recipes/search, GET /api/recipes/:id
// Protected: POST /api/recipes, POST /api/recipes/image
type RecipeModule struct {
	Handler  *handlers.RecipeHandler
	Sessions *application.SessionService
	Redis    *redis.Client
}

func NewRecipeModule(h *handlers.RecipeHandler, sessions *application.SessionService, rdb *redis.Client) *RecipeModule {
	return &RecipeModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	listLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/recipes", listLimiter, m.Handler.List)
	rg.GET("/recipes/search", listLimiter, m.Handler.Search)
	rg.GET("/recipes/:id", listLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	auth.Use(middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/recipes", m.Handler.Create)
		auth.POST("/recipes/image", m.Handler.UploadImage)
	}
}
