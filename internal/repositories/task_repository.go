package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "projectdesk/internal/db"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date, t.completed_at,
	t.created_at, t.assigned_to_id, t.project_id, t.location_id, t.request_id`

func scanTask(sc rowScanner, extra ...any) (models.Task, error) {
	var (
		t                                         models.Task
		description, assignedTo, locID, requestID sql.NullString
		dueDate, completedAt                      sql.NullTime
	)
	dest := []any{
		&t.ID, &t.Title, &description, &t.Status, &t.Priority, &dueDate, &completedAt,
		&t.CreatedAt, &assignedTo, &t.ProjectID, &locID, &requestID,
	}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return models.Task{}, err
	}
	t.Description = intdb.StringPtr(description)
	t.DueDate = intdb.TimePtr(dueDate)
	t.CompletedAt = intdb.TimePtr(completedAt)
	t.AssignedToID = intdb.StringPtr(assignedTo)
	t.LocationID = intdb.StringPtr(locID)
	t.RequestID = intdb.StringPtr(requestID)
	return t, nil
}

// TaskQuery filters tasks assigned to a user.
type TaskQuery struct {
	AssigneeID string
	Status     string
}

func (q TaskQuery) where() (string, []any) {
	where := "t.assigned_to_id = ?"
	args := []any{q.AssigneeID}
	if q.Status != "" {
		where += " AND t.status = ?"
		args = append(args, q.Status)
	}
	return where, args
}

type TaskRepository struct {
	DB intdb.DBTX
}

func NewTaskRepository(conn *sql.DB) TaskRepository {
	return TaskRepository{DB: conn}
}

func (r TaskRepository) CountByAssignee(ctx context.Context, q TaskQuery) (int, error) {
	where, args := q.where()
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks t WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, nil
}

// CountOpenByAssignee counts tasks that are not DONE.
func (r TaskRepository) CountOpenByAssignee(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks t WHERE t.assigned_to_id = ? AND t.status <> 'DONE'`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count open tasks: %w", err)
	}
	return total, nil
}

// ListByAssignee returns tasks by due date (latest first, undated last).
func (r TaskRepository) ListByAssignee(ctx context.Context, q TaskQuery, page domain.Page) ([]models.TaskSummary, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	return r.list(ctx, `
		SELECT `+taskColumns+`, l.id, l.name
		FROM tasks t
		LEFT JOIN locations l ON l.id = t.location_id
		WHERE `+where+`
		ORDER BY t.due_date IS NULL, t.due_date DESC, t.created_at DESC
		LIMIT ? OFFSET ?`, args...)
}

// RecentByAssignee returns the most recently created tasks of a user.
func (r TaskRepository) RecentByAssignee(ctx context.Context, userID string, limit int) ([]models.TaskSummary, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`, l.id, l.name
		FROM tasks t
		LEFT JOIN locations l ON l.id = t.location_id
		WHERE t.assigned_to_id = ?
		ORDER BY t.created_at DESC
		LIMIT ?`, userID, limit)
}

func (r TaskRepository) list(ctx context.Context, query string, args ...any) ([]models.TaskSummary, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []models.TaskSummary{}
	for rows.Next() {
		var locID, locName sql.NullString
		t, err := scanTask(rows, &locID, &locName)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		ts := models.TaskSummary{Task: t}
		if locID.Valid {
			ts.Location = &models.LocationRef{ID: locID.String, Name: locName.String}
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
