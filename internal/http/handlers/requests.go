package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/http/middleware"
	"projectdesk/internal/services"
)

func (h *Handler) requestService(c *gin.Context) services.RequestService {
	return services.RequestService{Requests: h.Requests, Users: h.Users, Now: h.Now, RequestID: middleware.GetRequestID(c)}
}

func requestFilters(c *gin.Context) services.RequestFilters {
	return services.RequestFilters{
		Status:         c.Query("status"),
		OrganizationID: c.Query("organizationId"),
		PageRequest:    pageRequest(c),
	}
}

func (h *Handler) GetRequests(c *gin.Context) {
	env, err := h.requestService(c).GetAllRequests(c.Request.Context(), requestFilters(c))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetRequest(c *gin.Context) {
	env, err := h.requestService(c).GetRequestByID(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetOrganizationRequests(c *gin.Context) {
	env, err := h.requestService(c).GetRequestsByOrganization(c.Request.Context(), c.Param("id"), requestFilters(c))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var in services.RequestInput
	if !bindJSON(c, &in) {
		return
	}
	env, err := h.requestService(c).CreateRequest(c.Request.Context(), in, middleware.UserID(c))
	respond(c, http.StatusCreated, env, err)
}
