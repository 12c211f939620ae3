package application

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/pkg/helpers"
	"github.com/plateful/plateful/pkg/token"
)

// SessionService owns the session cookie end to end: it is the only
// component that creates, refreshes, and destroys sessions.
type SessionService struct {
	Codec   *token.Codec
	Users   repository.UserRepository
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewSessionService(codec *token.Codec, users repository.UserRepository, cookies *helpers.CookieManager, logger *logrus.Logger) *SessionService {
	return &SessionService{Codec: codec, Users: users, Cookies: cookies, Logger: logger}
}

// Create signs a fresh token for userID and sets the session cookie,
// superseding any prior cookie value.
func (s *SessionService) Create(c *gin.Context, userID string) error {
	tok, exp, err := s.Codec.Sign(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("sign session token failed")
		return err
	}
	s.Cookies.SetSession(c, tok, exp)
	return nil
}

// Clear drops the session cookie. Idempotent.
func (s *SessionService) Clear(c *gin.Context) {
	s.Cookies.ClearSession(c)
}

// Current resolves the caller's user from the session cookie. Every
// failure mode (missing cookie, bad signature, expired token, deleted
// user, store error) resolves to nil, never an error. The returned
// user carries no password hash.
func (s *SessionService) Current(c *gin.Context) *entity.User {
	raw, err := c.Cookie(helpers.SessionCookie)
	if err != nil || raw == "" {
		return nil
	}
	claims := s.Codec.Verify(raw)
	if claims == nil {
		return nil
	}
	u, err := s.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("session user lookup failed")
		}
		return nil
	}
	u.Password = ""
	return u
}

// Refresh re-signs the inbound session with a fresh expiry window and
// stamps the new cookie on the response. If the cookie is absent or
// invalid, nothing is mutated and the caller proceeds unauthenticated.
func (s *SessionService) Refresh(c *gin.Context) {
	raw, err := c.Cookie(helpers.SessionCookie)
	if err != nil || raw == "" {
		return
	}
	claims := s.Codec.Verify(raw)
	if claims == nil {
		return
	}
	tok, exp, err := s.Codec.Sign(claims.UserID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Warn("session refresh failed")
		return
	}
	s.Cookies.SetSession(c, tok, exp)
}
