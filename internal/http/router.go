package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	h "projectdesk/internal/http/handlers"
	"projectdesk/internal/http/middleware"
	"projectdesk/internal/utils"
)

// NewRouter mounts every route under /api. Reads of projects and the auth endpoints are public.
func NewRouter(hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Metrics(), gin.Recovery(), middleware.CORS(hd.Env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, h.ErrorResponse{
			Message:   "route not found: " + c.Request.Method + " " + c.Request.URL.Path,
			Code:      stdhttp.StatusNotFound,
			RequestID: middleware.GetRequestID(c),
		})
	})

	auth := middleware.Auth([]byte(hd.Env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", auth, middleware.RequireRoles("admin"), hd.DBCheck)
		api.GET("/metrics", h.Metrics())

		users := api.Group("/users")
		users.POST("/register", hd.Register)
		users.POST("/login", hd.Login)
		users.GET("/organisation-users/:id", auth, hd.GetOrganisationUsers)

		projects := api.Group("/projects")
		projects.GET("/:id", hd.GetProject)
		projects.GET("/:id/sheet", hd.GetProjectSheet)
		projects.GET("/user/:userId", hd.GetProjectsByUser)
		projects.POST("/projet/:projetId", auth, hd.UpdateProject)
		projects.PUT("/:id", auth, hd.UpdateProject)
		projects.POST("", auth, hd.CreateProject)

		dashboard := api.Group("/dashboard", auth)
		dashboard.GET("", hd.GetDashboardData)
		dashboard.GET("/user/:userId", hd.GetDashboardData)
		dashboard.GET("/projects", hd.GetDashboardProjects)
		dashboard.GET("/projects/user/:userId", hd.GetDashboardProjects)
		dashboard.GET("/tasks", hd.GetDashboardTasks)
		dashboard.GET("/requests/recent/:organizationId", hd.GetRecentRequests)
		dashboard.GET("/users/organization", hd.GetUsersBySameOrganization)
		dashboard.GET("/users/organization/:userId", hd.GetUsersBySameOrganization)

		inventory := api.Group("/inventory", auth)
		inventory.GET("/organization/:organizationId/inventory", hd.GetInventory)
		inventory.GET("/organization/:organizationId/inventory/stats", hd.GetInventoryStats)
		inventory.GET("/organization/:organizationId/inventory/transactions", hd.GetInventoryTransactions)
		inventory.GET("/:id/details", hd.GetItemDetails)
		inventory.GET("/:id/details/equipement", hd.GetEquipmentDetails)

		providers := api.Group("/providers", auth)
		providers.GET("/providers", hd.GetProviders)
		providers.GET("/providers/:id", hd.GetProvider)
		providers.GET("/providers/:id/organizations", hd.GetProvidersByUser)

		requests := api.Group("/requests", auth)
		requests.GET("", hd.GetRequests)
		requests.POST("", hd.CreateRequest)
		requests.GET("/:id", hd.GetRequest)
		requests.GET("/organization/:id", hd.GetOrganizationRequests)
	}

	return r
}
