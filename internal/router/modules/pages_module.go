package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/plateful/plateful/internal/interface/http"
)

// PagesModule registers the page routes the RouteGuard polices.
type PagesModule struct {
	Handler *handlers.PagesHandler
}

func NewPagesModule(h *handlers.PagesHandler) *PagesModule {
	return &PagesModule{Handler: h}
}

func (m *PagesModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Home)
	rg.GET("/login", m.Handler.Login)
	rg.GET("/signup", m.Handler.SignUp)
	rg.GET("/verify-otp", m.Handler.VerifyOTP)
	rg.GET("/dashboard", m.Handler.Dashboard)
	rg.GET("/profile", m.Handler.Profile)
	rg.GET("/recipes", m.Handler.Recipes)
	rg.GET("/recipes/new", m.Handler.NewRecipe)
}
