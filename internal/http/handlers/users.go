package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	env, err := h.userService(c).Register(c.Request.Context(), in)
	respond(c, http.StatusCreated, env, err)
}

func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if !bindJSON(c, &in) {
		return
	}
	env, err := h.userService(c).Login(c.Request.Context(), in.Email, in.Password)
	respond(c, http.StatusOK, env, err)
}

// GetOrganisationUsers lists the users of organization :id.
func (h *Handler) GetOrganisationUsers(c *gin.Context) {
	env, err := h.userService(c).GetUsersByOrganization(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}
