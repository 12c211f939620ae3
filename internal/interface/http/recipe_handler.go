package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/interface/middleware"
	"github.com/plateful/plateful/pkg/response"
	"github.com/plateful/plateful/pkg/validation"
)

type RecipeHandler struct {
	Svc    *application.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

type createRecipeRequest struct {
	Title        string  `json:"title" form:"title" binding:"required,min=3"`
	Description  string  `json:"description" form:"description" binding:"required,min=10"`
	Price        float64 `json:"price" form:"price" binding:"required,gt=0"`
	Location     string  `json:"location" form:"location"`
	Contact      string  `json:"contact" form:"contact"`
	Ingredients  string  `json:"ingredients" form:"ingredients" binding:"required"`
	Instructions string  `json:"instructions" form:"instructions" binding:"required"`
	PrepTime     int     `json:"prep_time" form:"prep_time" binding:"required,gt=0"`
	CookTime     int     `json:"cook_time" form:"cook_time" binding:"required,gt=0"`
	Servings     int     `json:"servings" form:"servings" binding:"required,gt=0"`
	ImageURL     string  `json:"image_url" form:"image_url" binding:"omitempty,url"`
}

// parseIngredients splits textarea-style input, one ingredient per line,
// quantity separated from the item by the first space.
func parseIngredients(raw string) []entity.Ingredient {
	lines := strings.Split(raw, "\n")
	out := make([]entity.Ingredient, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, " "); i > 0 {
			out = append(out, entity.Ingredient{Quantity: line[:i], Item: strings.TrimSpace(line[i+1:])})
		} else {
			out = append(out, entity.Ingredient{Item: line})
		}
	}
	return out
}

func parseInstructions(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Create POST /api/recipes (session required)
func (h *RecipeHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form data", validation.ToDetails(err))
		return
	}

	rec := &entity.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		Contact:      req.Contact,
		Ingredients:  parseIngredients(req.Ingredients),
		Instructions: parseInstructions(req.Instructions),
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		ImageURL:     req.ImageURL,
		AuthorID:     c.GetString(middleware.CtxUserIDKey),
	}
	if err := h.Svc.Create(c.Request.Context(), rec); err != nil {
		h.Logger.WithError(err).Error("recipe create failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": rec.ID, "redirect": "/recipes/" + rec.ID}, "recipe created", nil)
}

// UploadImage POST /api/recipes/image (session required, multipart)
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("recipe image upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}

// Get GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrRecipeNotFound) {
			response.Error[any](c, http.StatusNotFound, "recipe not found", nil)
			return
		}
		h.Logger.WithError(err).Error("recipe lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	response.Success(c, http.StatusOK, rec, "recipe", nil)
}

// List GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	recipes, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("recipe list failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	response.Success(c, http.StatusOK, recipes, "recipes", gin.H{"limit": limit, "offset": offset})
}

// Search GET /api/recipes/search?q=
func (h *RecipeHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("recipe search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
