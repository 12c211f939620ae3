package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/internal/interface/middleware"
	"github.com/plateful/plateful/pkg/response"
	"github.com/plateful/plateful/pkg/validation"
)

type UserHandler struct {
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewUserHandler(users repository.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type updateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2"`
	Image    string `json:"image" binding:"omitempty,url"`
	Location string `json:"location"`
}

func profileJSON(u *entity.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"image":             u.Image,
		"location":          u.Location,
		"email_verified_at": u.EmailVerifiedAt,
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u.(*entity.User)), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("profile lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Image != "" {
		u.Image = req.Image
	}
	if req.Location != "" {
		u.Location = req.Location
	}
	if err := h.Users.Update(c.Request.Context(), u); err != nil {
		h.Logger.WithError(err).Error("profile update failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	u.Password = ""
	response.Success(c, http.StatusOK, profileJSON(u), "profile updated", nil)
}
