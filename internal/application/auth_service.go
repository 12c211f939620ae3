package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/config"
	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/pkg/helpers"
	"github.com/plateful/plateful/pkg/mailer"
	tpl "github.com/plateful/plateful/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	// ErrOTPInvalidOrExpired covers wrong code, expired code, and no
	// matching record alike.
	ErrOTPInvalidOrExpired = errors.New("invalid or expired otp")
	ErrEmailNotVerified    = errors.New("email not verified")
)

// AuthService drives the sign-up → verify → sign-in state machine.
// Session issuance stays with SessionService; this service only decides
// whether the caller earned one.
type AuthService struct {
	Users  repository.UserRepository
	OTPs   repository.OTPRepository
	Pub    *helpers.RabbitPublisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, otps repository.OTPRepository, pub *helpers.RabbitPublisher, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, OTPs: otps, Pub: pub, Cfg: cfg, Logger: logger}
}

// SignUp creates an unverified user and their first OTP in one
// transaction, then queues the verification email. The email send is
// fire-and-forget: a mail outage must not undo an otherwise good
// sign-up, so publish failures are only logged.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*entity.User, error) {
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return nil, err
	}

	u := &entity.User{Name: name, Email: email, Password: hash}
	otp := &entity.OTPCode{Code: code, ExpiresAt: time.Now().Add(s.Cfg.OTPTTL)}
	if err := s.Users.CreateWithOTP(ctx, u, otp); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendVerificationEmail(ctx, u, code)
	return u, nil
}

// SignIn authenticates email/password. A correct password on an
// unverified account yields ErrEmailNotVerified after a fresh OTP is
// issued, and never a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Verified() {
		if _, err := s.IssueOTP(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("otp re-issue on sign-in failed")
		}
		return u, ErrEmailNotVerified
	}
	return u, nil
}

// IssueOTP creates a new live code for the user and queues the email.
// Earlier codes stay valid until they expire or one is consumed.
func (s *AuthService) IssueOTP(ctx context.Context, u *entity.User) (string, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", err
	}
	otp := &entity.OTPCode{UserID: u.ID, Code: code, ExpiresAt: time.Now().Add(s.Cfg.OTPTTL)}
	if err := s.OTPs.Create(ctx, otp); err != nil {
		return "", err
	}
	s.sendVerificationEmail(ctx, u, code)
	return code, nil
}

// VerifyOTP consumes the newest live code matching (user, code). On
// success the user is marked verified and the code row is deleted so a
// replay of the same code fails.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	rec, err := s.OTPs.GetLatestValid(ctx, u.ID, code, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOTPInvalidOrExpired
		}
		return nil, err
	}

	now := time.Now()
	if err := s.Users.SetVerified(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.EmailVerifiedAt = &now

	if err := s.OTPs.Delete(ctx, rec.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		// A concurrent submit may have consumed the row first; the user is
		// verified either way.
		s.Logger.WithError(err).WithField("otp_id", rec.ID).Warn("consumed otp delete failed")
	}

	return u, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, u *entity.User, code string) {
	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyOTP,
		Data: map[string]any{
			"Name":           u.Name,
			"Code":           code,
			"AppName":        s.Cfg.AppName,
			"ExpiresMinutes": int(s.Cfg.OTPTTL.Minutes()),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish verification email job")
	}
}
