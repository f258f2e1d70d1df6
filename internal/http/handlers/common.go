package handlers

import (
	"database/sql"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "projectdesk/internal/config"
	"projectdesk/internal/domain"
	"projectdesk/internal/http/middleware"
	"projectdesk/internal/services"
)

// Handler holds the dependencies route handlers build their services from.
// Services are created per request so they carry the request id.
type Handler struct {
	DB        *sql.DB
	Redis     *redis.Client
	Env       intconfig.Env
	Projects  services.ProjectStore
	Tasks     services.TaskStore
	Users     services.UserStore
	Requests  services.RequestStore
	Providers services.ProviderStore
	Inventory services.InventoryStore
	Now       func() time.Time
}

func (h *Handler) projectService(c *gin.Context) services.ProjectService {
	return services.ProjectService{Projects: h.Projects, Now: h.Now, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) dashboardService(c *gin.Context) services.DashboardService {
	return services.DashboardService{
		Users:               h.Users,
		Projects:            h.Projects,
		Tasks:               h.Tasks,
		Requests:            h.Requests,
		RecentRequestsLimit: h.Env.RecentRequestsLimit,
		RequestID:           middleware.GetRequestID(c),
	}
}

func (h *Handler) userService(c *gin.Context) services.UserService {
	reqID := middleware.GetRequestID(c)
	return services.UserService{
		Users: h.Users,
		Guard: services.LoginGuard{
			Client:      h.Redis,
			MaxAttempts: h.Env.LoginMaxAttempts,
			Window:      h.Env.LoginLockWindow,
			RequestID:   reqID,
		},
		JWTSecret: []byte(h.Env.JWTSecret),
		TokenTTL:  h.Env.JWTTTL,
		Now:       h.Now,
		RequestID: reqID,
	}
}

// queryInt returns nil when the parameter is absent or not an integer.
func queryInt(c *gin.Context, keys ...string) *int {
	for _, k := range keys {
		raw := strings.TrimSpace(c.Query(k))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func pageRequest(c *gin.Context) domain.PageRequest {
	return domain.PageRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "pageSize", "perPage"),
	}
}

// userParam prefers the :userId path segment, then ?userId=, then the authenticated user.
func userParam(c *gin.Context) string {
	if v := strings.TrimSpace(c.Param("userId")); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Query("userId")); v != "" {
		return v
	}
	return middleware.UserID(c)
}

// bindJSON decodes the body into dst. An empty body leaves dst untouched.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, domain.ValidationError{Field: "body", Msg: "invalid JSON payload", Err: err})
		return false
	}
	return true
}
