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

const providerColumns = `pr.id, pr.name, pr.description, pr.contact, pr.email, pr.phone, pr.user_id, pr.created_at`

func scanProvider(sc rowScanner) (models.Provider, error) {
	var p models.Provider
	var description, contact, email, phone, userID sql.NullString
	if err := sc.Scan(&p.ID, &p.Name, &description, &contact, &email, &phone, &userID, &p.CreatedAt); err != nil {
		return models.Provider{}, err
	}
	p.Description = intdb.StringPtr(description)
	p.Contact = intdb.StringPtr(contact)
	p.Email = intdb.StringPtr(email)
	p.Phone = intdb.StringPtr(phone)
	p.UserID = intdb.StringPtr(userID)
	return p, nil
}

type ProviderQuery struct {
	Name string
}

func (q ProviderQuery) where() (string, []any) {
	if q.Name == "" {
		return "1 = 1", nil
	}
	return "LOWER(pr.name) LIKE ?", []any{intdb.LikeContains(q.Name)}
}

type ProviderRepository struct {
	DB intdb.DBTX
}

func NewProviderRepository(conn *sql.DB) ProviderRepository {
	return ProviderRepository{DB: conn}
}

func (r ProviderRepository) Count(ctx context.Context, q ProviderQuery) (int, error) {
	where, args := q.where()
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM providers pr WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count providers: %w", err)
	}
	return total, nil
}

func (r ProviderRepository) List(ctx context.Context, q ProviderQuery, page domain.Page) ([]models.Provider, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	return r.list(ctx, `
		SELECT `+providerColumns+`
		FROM providers pr
		WHERE `+where+`
		ORDER BY pr.name
		LIMIT ? OFFSET ?`, args...)
}

// ListByOrganization returns the providers linked to an organization.
func (r ProviderRepository) ListByOrganization(ctx context.Context, orgID string) ([]models.Provider, error) {
	return r.list(ctx, `
		SELECT `+providerColumns+`
		FROM providers pr
		JOIN provider_organizations po ON po.provider_id = pr.id
		WHERE po.organization_id = ?
		ORDER BY pr.name`, orgID)
}

func (r ProviderRepository) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	p, err := scanProvider(r.DB.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers pr WHERE pr.id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find provider: %w", err)
	}
	return &p, nil
}

// OrganizationsFor loads the organizations of each provider, keyed by provider id.
func (r ProviderRepository) OrganizationsFor(ctx context.Context, providerIDs []string) (map[string][]models.Organization, error) {
	out := make(map[string][]models.Organization, len(providerIDs))
	if len(providerIDs) == 0 {
		return out, nil
	}
	marks, args := intdb.InPlaceholders(providerIDs)
	rows, err := r.DB.QueryContext(ctx, `
		SELECT po.provider_id, o.id, o.name, o.description, o.created_at
		FROM provider_organizations po
		JOIN organizations o ON o.id = po.organization_id
		WHERE po.provider_id IN (`+marks+`)
		ORDER BY o.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("load provider organizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var providerID string
		var o models.Organization
		var description sql.NullString
		if err := rows.Scan(&providerID, &o.ID, &o.Name, &description, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		o.Description = intdb.StringPtr(description)
		out[providerID] = append(out[providerID], o)
	}
	return out, rows.Err()
}

func (r ProviderRepository) list(ctx context.Context, query string, args ...any) ([]models.Provider, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	out := []models.Provider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
