package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	"github.com/plateful/plateful/pkg/helpers"
	"github.com/plateful/plateful/pkg/token"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *stubUserRepo) CreateWithOTP(context.Context, *entity.User, *entity.OTPCode) error {
	return nil
}
func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *stubUserRepo) SetVerified(context.Context, string, time.Time) error { return nil }
func (r *stubUserRepo) Update(context.Context, *entity.User) error           { return nil }

func guardTestServer(t *testing.T, ttl time.Duration) (*gin.Engine, *application.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com", Password: "hash"},
	}}
	codec := token.NewCodec("test-secret", ttl, logger)
	sessions := application.NewSessionService(codec, users, helpers.NewCookie("", false), logger)

	r := gin.New()
	r.Use(RouteGuard(sessions))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/signup", ok)
	r.GET("/dashboard", ok)
	r.GET("/profile", ok)
	r.GET("/recipes", ok)
	r.GET("/recipes/new", ok)
	r.GET("/api/recipes", ok)
	return r, sessions
}

func doGet(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestGuardRedirectsAnonymousFromProtectedRoutes(t *testing.T) {
	r, _ := guardTestServer(t, time.Hour)

	for _, path := range []string{"/dashboard", "/profile", "/recipes/new"} {
		w := doGet(r, path, "")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
		assert.Nil(t, sessionCookie(w), "redirect must not refresh the cookie")
	}
}

func TestGuardRedirectsAuthenticatedFromPublicOnlyRoutes(t *testing.T) {
	r, sessions := guardTestServer(t, time.Hour)
	tok, _, err := sessions.Codec.Sign("u1")
	require.NoError(t, err)

	for _, path := range []string{"/login", "/signup"} {
		w := doGet(r, path, tok)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"), path)
		assert.Nil(t, sessionCookie(w), "redirect must not refresh the cookie")
	}
}

func TestGuardAllowsPublicRoutesEitherWay(t *testing.T) {
	r, sessions := guardTestServer(t, time.Hour)
	tok, _, err := sessions.Codec.Sign("u1")
	require.NoError(t, err)

	for _, path := range []string{"/", "/recipes"} {
		assert.Equal(t, http.StatusOK, doGet(r, path, "").Code, path)
		assert.Equal(t, http.StatusOK, doGet(r, path, tok).Code, path)
	}
}

func TestGuardRefreshesSessionOnProceed(t *testing.T) {
	r, sessions := guardTestServer(t, 8*time.Hour)
	tok, _, err := sessions.Codec.Sign("u1")
	require.NoError(t, err)

	w := doGet(r, "/dashboard", tok)
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(w)
	require.NotNil(t, ck, "authenticated request must get a refreshed cookie")
	assert.NotEmpty(t, ck.Value)
	assert.InDelta(t, int(8*time.Hour/time.Second), ck.MaxAge, 5)

	claims := sessions.Codec.Verify(ck.Value)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
}

func TestGuardTreatsBadCookieAsLoggedOut(t *testing.T) {
	r, sessions := guardTestServer(t, time.Hour)

	// Tampered token.
	tok, _, err := sessions.Codec.Sign("u1")
	require.NoError(t, err)
	b := []byte(tok)
	b[len(b)-2] ^= 0x01
	w := doGet(r, "/dashboard", string(b))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Token for a deleted user.
	tok, _, err = sessions.Codec.Sign("gone")
	require.NoError(t, err)
	w = doGet(r, "/dashboard", tok)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGuardSkipsAPIRoutes(t *testing.T) {
	r, _ := guardTestServer(t, time.Hour)

	// No session on an API path: the guard stands aside and the route's
	// own middleware decides.
	w := doGet(r, "/api/recipes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessionCookie(w))
}

func TestGuardExpiredSessionRedirects(t *testing.T) {
	r, _ := guardTestServer(t, time.Hour)

	expired := token.NewCodec("test-secret", -time.Minute, nil)
	tok, _, err := expired.Sign("u1")
	require.NoError(t, err)

	w := doGet(r, "/dashboard", tok)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
