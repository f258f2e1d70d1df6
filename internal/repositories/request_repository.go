package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intdb "projectdesk/internal/db"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

const requestColumns = `rq.id, rq.title, rq.description, rq.status, rq.user_id, rq.organization_id, rq.project_id, rq.created_at`

func scanRequest(sc rowScanner, extra ...any) (models.Request, error) {
	var rq models.Request
	var description, projectID sql.NullString
	dest := []any{&rq.ID, &rq.Title, &description, &rq.Status, &rq.UserID, &rq.OrganizationID, &projectID, &rq.CreatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return models.Request{}, err
	}
	rq.Description = intdb.StringPtr(description)
	rq.ProjectID = intdb.StringPtr(projectID)
	return rq, nil
}

// RequestQuery filters requests; empty fields are ignored.
type RequestQuery struct {
	Status         string
	OrganizationID string
}

func (q RequestQuery) where() (string, []any) {
	conds := []string{"1 = 1"}
	var args []any
	if q.Status != "" {
		conds = append(conds, "rq.status = ?")
		args = append(args, q.Status)
	}
	if q.OrganizationID != "" {
		conds = append(conds, "rq.organization_id = ?")
		args = append(args, q.OrganizationID)
	}
	return strings.Join(conds, " AND "), args
}

type RequestRepository struct {
	DB intdb.DBTX
}

func NewRequestRepository(conn *sql.DB) RequestRepository {
	return RequestRepository{DB: conn}
}

const requestWithRefsSelect = `
	SELECT ` + requestColumns + `, u.id, u.name, u.email, p.id, p.name
	FROM requests rq
	LEFT JOIN users u ON u.id = rq.user_id
	LEFT JOIN projects p ON p.id = rq.project_id`

func (r RequestRepository) Count(ctx context.Context, q RequestQuery) (int, error) {
	where, args := q.where()
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests rq WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return total, nil
}

func (r RequestRepository) List(ctx context.Context, q RequestQuery, page domain.Page) ([]models.RequestWithRefs, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	return r.list(ctx, requestWithRefsSelect+`
		WHERE `+where+`
		ORDER BY rq.created_at DESC
		LIMIT ? OFFSET ?`, args...)
}

// Recent returns the newest requests of an organization.
func (r RequestRepository) Recent(ctx context.Context, orgID string, limit int) ([]models.RequestWithRefs, error) {
	return r.list(ctx, requestWithRefsSelect+`
		WHERE rq.organization_id = ?
		ORDER BY rq.created_at DESC
		LIMIT ?`, orgID, limit)
}

func (r RequestRepository) CountPending(ctx context.Context, orgID string) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests rq WHERE rq.organization_id = ? AND rq.status = 'pending'`, orgID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count pending requests: %w", err)
	}
	return total, nil
}

func (r RequestRepository) FindByID(ctx context.Context, id string) (*models.RequestWithRefs, error) {
	rows, err := r.list(ctx, requestWithRefsSelect+` WHERE rq.id = ? LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func (r RequestRepository) Create(ctx context.Context, rq models.Request) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO requests (id, title, description, status, user_id, organization_id, project_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rq.ID, rq.Title, intdb.NullIfEmpty(rq.Description), rq.Status, rq.UserID, rq.OrganizationID,
		intdb.NullIfEmpty(rq.ProjectID), rq.CreatedAt,
	)
	if intdb.IsMissingReference(err) {
		return fmt.Errorf("insert request: unknown project: %w", domain.ErrNotFound)
	}
	return writeErr("insert request", err)
}

func (r RequestRepository) list(ctx context.Context, query string, args ...any) ([]models.RequestWithRefs, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []models.RequestWithRefs{}
	for rows.Next() {
		var userID, userName, userEmail, projectID, projectName sql.NullString
		rq, err := scanRequest(rows, &userID, &userName, &userEmail, &projectID, &projectName)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		item := models.RequestWithRefs{Request: rq}
		if userID.Valid {
			item.User = &models.UserRef{ID: userID.String, Name: userName.String, Email: userEmail.String}
		}
		if projectID.Valid {
			item.Project = &models.ProjectRef{ID: projectID.String, Name: projectName.String}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
