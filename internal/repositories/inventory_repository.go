package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "projectdesk/internal/db"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

const itemColumns = `i.id, i.name, i.description, i.category, i.is_equipment, i.quantity, i.min_quantity,
	i.unit, i.organization_id, i.created_at, i.updated_at`

func scanItem(sc rowScanner) (models.InventoryItem, error) {
	var it models.InventoryItem
	var description, category, unit sql.NullString
	if err := sc.Scan(&it.ID, &it.Name, &description, &category, &it.IsEquipment, &it.Quantity, &it.MinQuantity,
		&unit, &it.OrganizationID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return models.InventoryItem{}, err
	}
	it.Description = intdb.StringPtr(description)
	it.Category = intdb.StringPtr(category)
	it.Unit = intdb.StringPtr(unit)
	return it, nil
}

const transactionColumns = `tx.id, tx.item_id, i.name, tx.type, tx.quantity, tx.date, tx.note, tx.project_id, tx.user_id`

func scanTransaction(sc rowScanner) (models.InventoryTransaction, error) {
	var t models.InventoryTransaction
	var note, projectID, userID sql.NullString
	if err := sc.Scan(&t.ID, &t.ItemID, &t.ItemName, &t.Type, &t.Quantity, &t.Date, &note, &projectID, &userID); err != nil {
		return models.InventoryTransaction{}, err
	}
	t.Note = intdb.StringPtr(note)
	t.ProjectID = intdb.StringPtr(projectID)
	t.UserID = intdb.StringPtr(userID)
	return t, nil
}

// InventoryQuery filters the items of one organization.
type InventoryQuery struct {
	OrganizationID string
	Name           string
	Category       string
}

func (q InventoryQuery) where() (string, []any) {
	conds := []string{"i.organization_id = ?"}
	args := []any{q.OrganizationID}
	if strings.TrimSpace(q.Name) != "" {
		conds = append(conds, "LOWER(i.name) LIKE ?")
		args = append(args, intdb.LikeContains(q.Name))
	}
	if q.Category != "" {
		conds = append(conds, "i.category = ?")
		args = append(args, q.Category)
	}
	return strings.Join(conds, " AND "), args
}

// TransactionQuery filters the stock movements of one organization.
type TransactionQuery struct {
	OrganizationID string
	Type           string
}

func (q TransactionQuery) where() (string, []any) {
	where := "i.organization_id = ?"
	args := []any{q.OrganizationID}
	if q.Type != "" {
		where += " AND tx.type = ?"
		args = append(args, q.Type)
	}
	return where, args
}

type InventoryRepository struct {
	DB intdb.DBTX
}

func NewInventoryRepository(conn *sql.DB) InventoryRepository {
	return InventoryRepository{DB: conn}
}

func (r InventoryRepository) CountItems(ctx context.Context, q InventoryQuery) (int, error) {
	where, args := q.where()
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_items i WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return total, nil
}

func (r InventoryRepository) ListItems(ctx context.Context, q InventoryQuery, page domain.Page) ([]models.InventoryItem, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items i
		WHERE `+where+`
		ORDER BY i.name
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []models.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Stats aggregates stock figures. Low stock means 0 < quantity <= min_quantity.
func (r InventoryRepository) Stats(ctx context.Context, orgID string) (models.InventoryStats, error) {
	var s models.InventoryStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(i.quantity), 0),
		       COALESCE(SUM(CASE WHEN i.quantity > 0 AND i.quantity <= i.min_quantity THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN i.quantity <= 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN i.is_equipment THEN 1 ELSE 0 END), 0)
		FROM inventory_items i
		WHERE i.organization_id = ?`, orgID,
	).Scan(&s.TotalItems, &s.TotalQuantity, &s.LowStockItems, &s.OutOfStockItems, &s.EquipmentItems)
	if err != nil {
		return models.InventoryStats{}, fmt.Errorf("inventory stats: %w", err)
	}
	return s, nil
}

func (r InventoryRepository) CountTransactions(ctx context.Context, q TransactionQuery) (int, error) {
	where, args := q.where()
	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM inventory_transactions tx
		JOIN inventory_items i ON i.id = tx.item_id
		WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

func (r InventoryRepository) ListTransactions(ctx context.Context, q TransactionQuery, page domain.Page) ([]models.InventoryTransaction, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	return r.transactions(ctx, `
		SELECT `+transactionColumns+`
		FROM inventory_transactions tx
		JOIN inventory_items i ON i.id = tx.item_id
		WHERE `+where+`
		ORDER BY tx.date DESC
		LIMIT ? OFFSET ?`, args...)
}

func (r InventoryRepository) FindItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items i WHERE i.id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return &it, nil
}

// LatestTransactions returns the newest movements of an item.
func (r InventoryRepository) LatestTransactions(ctx context.Context, itemID string, limit int) ([]models.InventoryTransaction, error) {
	return r.transactions(ctx, `
		SELECT `+transactionColumns+`
		FROM inventory_transactions tx
		JOIN inventory_items i ON i.id = tx.item_id
		WHERE tx.item_id = ?
		ORDER BY tx.date DESC
		LIMIT ?`, itemID, limit)
}

// ProjectsForItem lists the distinct projects an item was issued to.
func (r InventoryRepository) ProjectsForItem(ctx context.Context, itemID string) ([]models.ProjectRef, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name
		FROM inventory_transactions tx
		JOIN projects p ON p.id = tx.project_id
		WHERE tx.item_id = ?
		ORDER BY p.name`, itemID)
	if err != nil {
		return nil, fmt.Errorf("item projects: %w", err)
	}
	defer rows.Close()

	out := []models.ProjectRef{}
	for rows.Next() {
		var p models.ProjectRef
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan project ref: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r InventoryRepository) transactions(ctx context.Context, query string, args ...any) ([]models.InventoryTransaction, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []models.InventoryTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
