package services

import (
	"context"
	"errors"
	"strings"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
	"projectdesk/internal/utils"
)

const itemTransactionsLimit = 20

var TransactionTypes = []string{models.TransactionIn, models.TransactionOut}

type InventoryFilters struct {
	Name     string
	Category string
	domain.PageRequest
}

type TransactionFilters struct {
	Type string
	domain.PageRequest
}

type InventoryService struct {
	Inventory InventoryStore
	RequestID string
}

func (s InventoryService) GetInventoryByOrganization(ctx context.Context, orgID string, f InventoryFilters) (domain.PageEnvelope[models.InventoryItem], error) {
	var out domain.PageEnvelope[models.InventoryItem]
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return out, err
	}
	page := domain.NewPage(f.PageRequest)
	q := repositories.InventoryQuery{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(f.Name),
		Category:       strings.TrimSpace(f.Category),
	}
	total, err := s.Inventory.CountItems(ctx, q)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_inventory", err)
	}
	rows, err := s.Inventory.ListItems(ctx, q, page)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_inventory", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "inventory retrieved"), nil
}

func (s InventoryService) GetInventoryStats(ctx context.Context, orgID string) (domain.Envelope[models.InventoryStats], error) {
	var out domain.Envelope[models.InventoryStats]
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return out, err
	}
	stats, err := s.Inventory.Stats(ctx, orgID)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_inventory_stats", err)
	}
	out.Data = stats
	out.Message = "inventory stats retrieved"
	return out, nil
}

func (s InventoryService) GetInventoryTransactions(ctx context.Context, orgID string, f TransactionFilters) (domain.PageEnvelope[models.InventoryTransaction], error) {
	var out domain.PageEnvelope[models.InventoryTransaction]
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return out, err
	}
	typ := strings.ToLower(strings.TrimSpace(f.Type))
	if typ != "" {
		if err := utils.OneOf("type", typ, TransactionTypes); err != nil {
			return out, err
		}
	}

	page := domain.NewPage(f.PageRequest)
	q := repositories.TransactionQuery{OrganizationID: orgID, Type: typ}
	total, err := s.Inventory.CountTransactions(ctx, q)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_transactions", err)
	}
	rows, err := s.Inventory.ListTransactions(ctx, q, page)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_transactions", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "transactions retrieved"), nil
}

func (s InventoryService) findItem(ctx context.Context, field, id string) (*models.InventoryItem, error) {
	id, err := utils.RequireID(field, id)
	if err != nil {
		return nil, err
	}
	item, err := s.Inventory.FindItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("item not found")
	}
	return item, err
}

// GetItemDetails returns an item with its latest movements.
func (s InventoryService) GetItemDetails(ctx context.Context, itemID string) (domain.Envelope[models.ItemDetails], error) {
	var out domain.Envelope[models.ItemDetails]
	item, err := s.findItem(ctx, "itemId", itemID)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_item_details", err)
	}
	txs, err := s.Inventory.LatestTransactions(ctx, item.ID, itemTransactionsLimit)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_item_details", err)
	}
	out.Data = models.ItemDetails{InventoryItem: *item, Transactions: nonNil(txs)}
	out.Message = "item details retrieved"
	return out, nil
}

// GetEquipmentWithDetails is GetItemDetails for equipment, plus the projects it was issued to.
func (s InventoryService) GetEquipmentWithDetails(ctx context.Context, equipmentID string) (domain.Envelope[models.EquipmentDetails], error) {
	var out domain.Envelope[models.EquipmentDetails]
	item, err := s.findItem(ctx, "equipmentId", equipmentID)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_equipment_details", err)
	}
	if !item.IsEquipment {
		return out, domain.ValidationError{Field: "equipmentId", Msg: "item is not equipment"}
	}
	txs, err := s.Inventory.LatestTransactions(ctx, item.ID, itemTransactionsLimit)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_equipment_details", err)
	}
	projects, err := s.Inventory.ProjectsForItem(ctx, item.ID)
	if err != nil {
		return out, classify(s.RequestID, "inventory", "get_equipment_details", err)
	}
	out.Data = models.EquipmentDetails{InventoryItem: *item, Transactions: nonNil(txs), Projects: nonNil(projects)}
	out.Message = "equipment details retrieved"
	return out, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
