package models

import "time"

const (
	TransactionIn  = "in"
	TransactionOut = "out"
)

type InventoryItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Category       *string   `json:"category"`
	IsEquipment    bool      `json:"isEquipment"`
	Quantity       int       `json:"quantity"`
	MinQuantity    int       `json:"minQuantity"`
	Unit           *string   `json:"unit"`
	OrganizationID string    `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type InventoryTransaction struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	ItemName  string    `json:"itemName,omitempty"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
	Note      *string   `json:"note"`
	ProjectID *string   `json:"projectId"`
	UserID    *string   `json:"userId"`
}

// InventoryStats aggregates the stock of one organization.
type InventoryStats struct {
	TotalItems      int `json:"totalItems"`
	TotalQuantity   int `json:"totalQuantity"`
	LowStockItems   int `json:"lowStockItems"`
	OutOfStockItems int `json:"outOfStockItems"`
	EquipmentItems  int `json:"equipmentItems"`
}

type ItemDetails struct {
	InventoryItem
	Transactions []InventoryTransaction `json:"transactions"`
}

type EquipmentDetails struct {
	InventoryItem
	Transactions []InventoryTransaction `json:"transactions"`
	Projects     []ProjectRef           `json:"projects"`
}
