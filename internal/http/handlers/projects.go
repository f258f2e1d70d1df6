package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/http/middleware"
	"projectdesk/internal/services"
)

func (h *Handler) GetProject(c *gin.Context) {
	env, err := h.projectService(c).GetProjectDetails(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetProjectsByUser(c *gin.Context) {
	f := services.ProjectFilters{
		Status:      c.Query("status"),
		Name:        c.Query("name"),
		PageRequest: pageRequest(c),
	}
	env, err := h.projectService(c).GetProjectsByUser(c.Request.Context(), c.Param("userId"), f)
	respond(c, http.StatusOK, env, err)
}

// UpdateProject serves both PUT /projects/:id and POST /projects/projet/:projetId.
// Only the manager of the project may update it.
func (h *Handler) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Param("projetId")
	}
	var upd services.ProjectUpdate
	if !bindJSON(c, &upd) {
		return
	}
	env, err := h.projectService(c).UpdateProject(c.Request.Context(), id, upd, middleware.UserID(c))
	respond(c, http.StatusOK, env, err)
}

// CreateProject uses projectManagerId from the body and falls back to the caller.
func (h *Handler) CreateProject(c *gin.Context) {
	var in services.ProjectInput
	if !bindJSON(c, &in) {
		return
	}
	managerID := strings.TrimSpace(in.ProjectManagerID)
	if managerID == "" {
		managerID = middleware.UserID(c)
	}
	env, err := h.projectService(c).CreateProject(c.Request.Context(), in, managerID)
	respond(c, http.StatusCreated, env, err)
}

// GetProjectSheet streams the PDF summary of a project inline.
func (h *Handler) GetProjectSheet(c *gin.Context) {
	svc := services.DocsService{Projects: h.Projects, Now: h.Now, RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.ProjectSheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
