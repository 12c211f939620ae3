package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/pkg/response"
	"github.com/plateful/plateful/pkg/validation"
)

// AuthHandler exposes the sign-up / verify / sign-in / sign-out flows as
// form-submission endpoints. Success payloads carry a redirect target;
// failures carry field-level details where a specific field is at fault.
type AuthHandler struct {
	Auth     *application.AuthService
	Sessions *application.SessionService
	Logger   *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, sessions *application.SessionService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Logger: logger}
}

type signUpRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=2"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"`
}

type signInRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	OTP   string `json:"otp" form:"otp" binding:"required,otp"`
}

func verifyRedirect(email string) string {
	return "/verify-otp?email=" + url.QueryEscape(email)
}

// SignUp POST /api/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form data", validation.ToDetails(err))
		return
	}

	_, err := h.Auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "sign-up failed", gin.H{"email": "a user with this email already exists"})
			return
		}
		h.Logger.WithError(err).Error("sign-up failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"redirect": verifyRedirect(req.Email)}, "account created, check your email for a verification code", nil)
}

// SignIn POST /api/login
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form data", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrInvalidCredentials):
		// One message for unknown email and wrong password alike.
		response.Error[any](c, http.StatusUnauthorized, "Invalid credentials. Please try again.", nil)
		return
	case errors.Is(err, application.ErrEmailNotVerified):
		// Correct password, unverified account: no session is created.
		response.Error[any](c, http.StatusForbidden, "email not verified", gin.H{"redirect": verifyRedirect(req.Email)})
		return
	default:
		h.Logger.WithError(err).Error("sign-in failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}

	if err := h.Sessions.Create(c, u.ID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"redirect": "/dashboard"}, "sign-in successful", nil)
}

// VerifyOTP POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form data", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	case errors.Is(err, application.ErrOTPInvalidOrExpired):
		response.Error[any](c, http.StatusBadRequest, "verification failed", gin.H{"otp": "invalid or expired OTP"})
		return
	default:
		h.Logger.WithError(err).Error("otp verification failed")
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}

	// Verification success always results in an authenticated session.
	if err := h.Sessions.Create(c, u.ID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "an unexpected error occurred, please try again", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"redirect": "/dashboard"}, "account verified successfully", nil)
}

// SignOut POST /api/logout. Unconditionally drops the session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Sessions.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"redirect": "/login"}, "signed out", nil)
}
