package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/http/middleware"
	"projectdesk/internal/services"
)

func (h *Handler) providerService(c *gin.Context) services.ProviderService {
	return services.ProviderService{Providers: h.Providers, Users: h.Users, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) GetProviders(c *gin.Context) {
	f := services.ProviderFilters{Name: c.Query("name"), PageRequest: pageRequest(c)}
	env, err := h.providerService(c).GetAllProviders(c.Request.Context(), f)
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetProvider(c *gin.Context) {
	env, err := h.providerService(c).GetProviderDetails(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}

// GetProvidersByUser answers /providers/providers/:id/organizations where :id is a user id.
func (h *Handler) GetProvidersByUser(c *gin.Context) {
	env, err := h.providerService(c).GetProvidersByUser(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}
