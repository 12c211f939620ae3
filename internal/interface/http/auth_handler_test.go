package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/plateful/config"
	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/pkg/helpers"
	"github.com/plateful/plateful/pkg/token"
	"github.com/plateful/plateful/pkg/validation"
)

type memUserRepo struct {
	users  map[string]*entity.User
	otps   *memOTPRepo
	nextID int
}

type memOTPRepo struct {
	codes  map[string]*entity.OTPCode
	nextID int
}

func newMemRepos() (*memUserRepo, *memOTPRepo) {
	otps := &memOTPRepo{codes: map[string]*entity.OTPCode{}}
	return &memUserRepo{users: map[string]*entity.User{}, otps: otps}, otps
}

func (r *memUserRepo) findByEmail(email string) *entity.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.findByEmail(u.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	r.nextID++
	u.ID = "u" + strconv.Itoa(r.nextID)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) CreateWithOTP(ctx context.Context, u *entity.User, otp *entity.OTPCode) error {
	if err := r.Create(ctx, u); err != nil {
		return err
	}
	otp.UserID = u.ID
	return r.otps.Create(ctx, otp)
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u := r.findByEmail(email)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) SetVerified(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailVerifiedAt = &at
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*stored = *u
	return nil
}

func (r *memOTPRepo) Create(_ context.Context, o *entity.OTPCode) error {
	r.nextID++
	o.ID = "c" + strconv.Itoa(r.nextID)
	o.CreatedAt = time.Now()
	cp := *o
	r.codes[o.ID] = &cp
	return nil
}

func (r *memOTPRepo) GetLatestValid(_ context.Context, userID, code string, now time.Time) (*entity.OTPCode, error) {
	var best *entity.OTPCode
	for _, o := range r.codes {
		if o.UserID != userID || o.Code != code || !o.ExpiresAt.After(now) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) {
			best = o
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *memOTPRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.codes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.codes, id)
	return nil
}

func (r *memOTPRepo) codeFor(userID string) string {
	for _, o := range r.codes {
		if o.UserID == userID {
			return o.Code
		}
	}
	return ""
}

type authFixture struct {
	router *gin.Engine
	users  *memUserRepo
	otps   *memOTPRepo
	codec  *token.Codec
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users, otps := newMemRepos()
	cfg := &config.Config{AppName: "plateful", OTPTTL: 10 * time.Minute, MailSendEnabled: false}
	authSvc := application.NewAuthService(users, otps, nil, cfg, logger)
	codec := token.NewCodec("test-secret", 8*time.Hour, logger)
	sessions := application.NewSessionService(codec, users, helpers.NewCookie("", false), logger)
	h := NewAuthHandler(authSvc, sessions, logger)

	r := gin.New()
	r.POST("/api/signup", h.SignUp)
	r.POST("/api/login", h.SignIn)
	r.POST("/api/verify-otp", h.VerifyOTP)
	r.POST("/api/logout", h.SignOut)

	return &authFixture{router: r, users: users, otps: otps, codec: codec}
}

func (f *authFixture) postJSON(t *testing.T, path string, body map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (f *authFixture) signUp(t *testing.T, email string) string {
	t.Helper()
	w, _ := f.postJSON(t, "/api/signup", map[string]string{
		"name": "Alice", "email": email,
		"password": "password123", "confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	u := f.users.findByEmail(email)
	require.NotNil(t, u)
	return u.ID
}

func hasSessionCookie(w *httptest.ResponseRecorder) bool {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

func TestSignUpRedirectsToVerifyPage(t *testing.T) {
	f := newAuthFixture(t)

	w, resp := f.postJSON(t, "/api/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com",
		"password": "password123", "confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "/verify-otp?email=alice%40example.com", data["redirect"])
	assert.False(t, hasSessionCookie(w), "sign-up must not create a session")
}

func TestSignUpValidationErrors(t *testing.T) {
	f := newAuthFixture(t)

	w, resp := f.postJSON(t, "/api/signup", map[string]string{
		"name": "A", "email": "not-an-email",
		"password": "short", "confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	details := resp["error"].(map[string]any)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "confirm_password")
}

func TestSignUpDuplicateEmailConflict(t *testing.T) {
	f := newAuthFixture(t)
	f.signUp(t, "alice@example.com")

	w, _ := f.postJSON(t, "/api/signup", map[string]string{
		"name": "Other", "email": "alice@example.com",
		"password": "password123", "confirm_password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignInGenericMessageForBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	id := f.signUp(t, "alice@example.com")
	code := f.otps.codeFor(id)
	w, _ := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "alice@example.com", "otp": code})
	require.Equal(t, http.StatusOK, w.Code)

	w1, r1 := f.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "wrong-password"})
	w2, r2 := f.postJSON(t, "/api/login", map[string]string{"email": "ghost@example.com", "password": "wrong-password"})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, "Invalid credentials. Please try again.", r1["message"])
	assert.Equal(t, r1["message"], r2["message"], "unknown email and wrong password must be indistinguishable")
	assert.False(t, hasSessionCookie(w1))
}

func TestSignInUnverifiedGetsRedirectNotSession(t *testing.T) {
	f := newAuthFixture(t)
	f.signUp(t, "alice@example.com")

	w, resp := f.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "password123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	details := resp["error"].(map[string]any)
	assert.Equal(t, "/verify-otp?email=alice%40example.com", details["redirect"])
	assert.False(t, hasSessionCookie(w), "unverified sign-in must not create a session")
}

func TestVerifyOTPCreatesSession(t *testing.T) {
	f := newAuthFixture(t)
	id := f.signUp(t, "alice@example.com")
	code := f.otps.codeFor(id)

	w, resp := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "alice@example.com", "otp": code})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "/dashboard", data["redirect"])
	assert.True(t, hasSessionCookie(w), "verification success must sign the user in")
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	w, resp := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "ghost@example.com", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", resp["message"])
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	f.signUp(t, "alice@example.com")

	w, resp := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "alice@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	details := resp["error"].(map[string]any)
	assert.Equal(t, "invalid or expired OTP", details["otp"])
	assert.False(t, hasSessionCookie(w))
}

func TestVerifyOTPMalformedCodeRejectedByValidation(t *testing.T) {
	f := newAuthFixture(t)
	f.signUp(t, "alice@example.com")

	for _, bad := range []string{"12345", "1234567", "abcdef"} {
		w, _ := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "alice@example.com", "otp": bad})
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestSignInVerifiedCreatesSession(t *testing.T) {
	f := newAuthFixture(t)
	id := f.signUp(t, "alice@example.com")
	code := f.otps.codeFor(id)
	w, _ := f.postJSON(t, "/api/verify-otp", map[string]string{"email": "alice@example.com", "otp": code})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := f.postJSON(t, "/api/login", map[string]string{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "/dashboard", data["redirect"])
	assert.True(t, hasSessionCookie(w))

	// The cookie must verify and name the signed-in user.
	var raw string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			raw = ck.Value
		}
	}
	claims := f.codec.Verify(raw)
	require.NotNil(t, claims)
	assert.Equal(t, id, claims.UserID)
}

func TestSignOutClearsSession(t *testing.T) {
	f := newAuthFixture(t)

	w, resp := f.postJSON(t, "/api/logout", map[string]string{})
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "/login", data["redirect"])

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie && ck.Value == "" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "sign-out must expire the session cookie")
}
