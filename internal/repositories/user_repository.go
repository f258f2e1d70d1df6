package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "projectdesk/internal/db"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return UserRepository{DB: conn}
}

func (r UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ? LIMIT 1`, id)
}

// FindByEmail matches the stored (lowercased) address.
func (r UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = ? LIMIT 1`, email)
}

func (r UserRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, avatar, organization_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
		intdb.NullIfEmpty(u.Avatar), intdb.NullIfEmpty(u.OrganizationID), u.CreatedAt, u.UpdatedAt,
	)
	return writeErr("insert user", err)
}

// ListByOrganization returns the members of an organization ordered by name.
func (r UserRepository) ListByOrganization(ctx context.Context, orgID string) ([]models.PublicUser, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.organization_id = ?
		ORDER BY u.name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.PublicUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u.ToPublic())
	}
	return out, rows.Err()
}
