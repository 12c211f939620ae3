package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/interface/middleware"
)

// PagesHandler serves minimal placeholder pages. The real UI is a
// separate front end; these routes exist so the RouteGuard has page
// paths to police and so the service can run standalone.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler { return &PagesHandler{} }

func page(c *gin.Context, title string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "<!DOCTYPE html><html><head><title>%s</title></head><body><h1>%s</h1></body></html>", title, title)
}

func (h *PagesHandler) Home(c *gin.Context)      { page(c, "Plateful") }
func (h *PagesHandler) Login(c *gin.Context)     { page(c, "Log in") }
func (h *PagesHandler) SignUp(c *gin.Context)    { page(c, "Sign up") }
func (h *PagesHandler) VerifyOTP(c *gin.Context) { page(c, "Verify your email") }
func (h *PagesHandler) Recipes(c *gin.Context)   { page(c, "Recipes") }
func (h *PagesHandler) NewRecipe(c *gin.Context) { page(c, "Share a recipe") }

func (h *PagesHandler) Dashboard(c *gin.Context) {
	if u, ok := c.Get(middleware.CtxUserKey); ok {
		page(c, "Dashboard — "+u.(*entity.User).Name)
		return
	}
	page(c, "Dashboard")
}

func (h *PagesHandler) Profile(c *gin.Context) {
	if u, ok := c.Get(middleware.CtxUserKey); ok {
		page(c, "Profile — "+u.(*entity.User).Email)
		return
	}
	page(c, "Profile")
}
