package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RequiredTables are the tables the repositories read from.
var RequiredTables = []string{
	"users", "organizations", "locations",
	"projects", "project_supervisors", "project_contractors",
	"tasks", "kpis",
	"project_documents", "project_timeline", "budget_distributions", "project_contracts", "project_evaluations",
	"requests",
	"inventory_items", "inventory_transactions",
	"providers", "provider_organizations",
}

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q DBTX, table string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return name.Valid && name.String != "", nil
}

// MissingTables returns the subset of tables absent from the schema.
func MissingTables(ctx context.Context, q DBTX, tables []string) ([]string, error) {
	var missing []string
	for _, t := range tables {
		ok, err := HasTable(ctx, q, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
