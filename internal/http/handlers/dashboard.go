package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/services"
)

func (h *Handler) GetDashboardData(c *gin.Context) {
	env, err := h.dashboardService(c).GetDashboardData(c.Request.Context(), userParam(c))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetDashboardProjects(c *gin.Context) {
	f := services.ProjectFilters{
		Status:      c.Query("status"),
		Name:        c.Query("name"),
		PageRequest: pageRequest(c),
	}
	env, err := h.dashboardService(c).GetProjectsByUser(c.Request.Context(), userParam(c), f)
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetDashboardTasks(c *gin.Context) {
	f := services.TaskFilters{Status: c.Query("status"), PageRequest: pageRequest(c)}
	env, err := h.dashboardService(c).GetTasksByUser(c.Request.Context(), userParam(c), f)
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetRecentRequests(c *gin.Context) {
	env, err := h.dashboardService(c).GetRecentRequests(c.Request.Context(), c.Param("organizationId"), queryInt(c, "limit"))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetUsersBySameOrganization(c *gin.Context) {
	env, err := h.dashboardService(c).GetUsersBySameOrganization(c.Request.Context(), userParam(c))
	respond(c, http.StatusOK, env, err)
}
