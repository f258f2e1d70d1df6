package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "projectdesk/internal/config"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	h "projectdesk/internal/http/handlers"
)

type memUsers struct {
	byID map[string]models.User
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u models.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) ListByOrganization(_ context.Context, orgID string) ([]models.PublicUser, error) {
	var out []models.PublicUser
	for _, u := range m.byID {
		if u.OrganizationID != nil && *u.OrganizationID == orgID {
			out = append(out, u.ToPublic())
		}
	}
	return out, nil
}

func testRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	hd := &h.Handler{
		Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Env: intconfig.Env{
			JWTSecret:           "router-test-secret",
			JWTTTL:              time.Hour,
			LoginMaxAttempts:    2,
			LoginLockWindow:     time.Minute,
			RecentRequestsLimit: 5,
		},
		Users: &memUsers{byID: map[string]models.User{}},
	}
	return NewRouter(hd), mr
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndRequestID(t *testing.T) {
	r, _ := testRouter(t)
	w := do(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	r, _ := testRouter(t)
	w := do(r, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":404`)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, _ := testRouter(t)
	for _, path := range []string{"/api/dashboard", "/api/requests", "/api/providers/providers", "/api/users/organisation-users/org1"} {
		w := do(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := do(r, http.MethodGet, "/api/requests", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterLoginAndListOrganization(t *testing.T) {
	r, _ := testRouter(t)

	w := do(r, http.MethodPost, "/api/users/register", "", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "secret1", "organizationId": "org1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/users/register", "", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/users/login", "", map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	w = do(r, http.MethodGet, "/api/users/organisation-users/org1", login.Data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLoginLockout(t *testing.T) {
	r, _ := testRouter(t)
	bad := map[string]any{"email": "ghost@example.com", "password": "wrong"}

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/users/login", "", bad).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/users/login", "", bad).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/users/login", "", bad).Code)
}

func TestProjectValidationBeforeStore(t *testing.T) {
	r, _ := testRouter(t)

	w := do(r, http.MethodGet, "/api/projects/user/u1?status=NOPE", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status")

	w = do(r, http.MethodGet, "/api/projects/%20", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	r, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
