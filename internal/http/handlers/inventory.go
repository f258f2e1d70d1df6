package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/http/middleware"
	"projectdesk/internal/services"
)

func (h *Handler) inventoryService(c *gin.Context) services.InventoryService {
	return services.InventoryService{Inventory: h.Inventory, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) GetInventory(c *gin.Context) {
	f := services.InventoryFilters{
		Name:        c.Query("name"),
		Category:    c.Query("category"),
		PageRequest: pageRequest(c),
	}
	env, err := h.inventoryService(c).GetInventoryByOrganization(c.Request.Context(), c.Param("organizationId"), f)
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetInventoryStats(c *gin.Context) {
	env, err := h.inventoryService(c).GetInventoryStats(c.Request.Context(), c.Param("organizationId"))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetInventoryTransactions(c *gin.Context) {
	f := services.TransactionFilters{Type: c.Query("type"), PageRequest: pageRequest(c)}
	env, err := h.inventoryService(c).GetInventoryTransactions(c.Request.Context(), c.Param("organizationId"), f)
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetItemDetails(c *gin.Context) {
	env, err := h.inventoryService(c).GetItemDetails(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}

func (h *Handler) GetEquipmentDetails(c *gin.Context) {
	env, err := h.inventoryService(c).GetEquipmentWithDetails(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, env, err)
}
