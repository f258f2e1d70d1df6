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

// FindDetails assembles the full project graph. Missing projects yield domain.ErrNotFound.
func (r ProjectRepository) FindDetails(ctx context.Context, id string) (*models.ProjectDetails, error) {
	var locID, locName, locAddr sql.NullString
	var locLat, locLng sql.NullFloat64
	row := r.db().QueryRowContext(ctx, `
		SELECT `+projectColumns+`, l.id, l.name, l.address, l.latitude, l.longitude
		FROM projects p
		LEFT JOIN locations l ON l.id = p.location_id
		WHERE p.id = ?
		LIMIT 1`, id)
	p, err := scanProject(row, &locID, &locName, &locAddr, &locLat, &locLng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}

	d := &models.ProjectDetails{Project: p}
	if locID.Valid {
		d.Location = &models.Location{
			ID:        locID.String,
			Name:      locName.String,
			Address:   intdb.StringPtr(locAddr),
			Latitude:  intdb.FloatPtr(locLat),
			Longitude: intdb.FloatPtr(locLng),
		}
	}

	loaders := []struct {
		name string
		load func(context.Context, *models.ProjectDetails) error
	}{
		{"manager", r.loadManager},
		{"supervisors", r.loadSupervisors},
		{"contractors", r.loadContractors},
		{"parent", r.loadParent},
		{"sub projects", r.loadSubProjects},
		{"tasks", r.loadTasks},
		{"documents", r.loadDocuments},
		{"requests", r.loadRequests},
		{"kpis", r.loadKpis},
		{"timeline", r.loadTimeline},
		{"budget distributions", r.loadBudget},
		{"contracts", r.loadContracts},
		{"evaluations", r.loadEvaluations},
	}
	for _, l := range loaders {
		if err := l.load(ctx, d); err != nil {
			return nil, fmt.Errorf("load project %s: %w", l.name, err)
		}
	}
	return d, nil
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.avatar, u.organization_id, u.created_at, u.updated_at`

func scanUser(sc rowScanner) (models.User, error) {
	var u models.User
	var avatar, orgID sql.NullString
	if err := sc.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &avatar, &orgID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return models.User{}, err
	}
	u.Avatar = intdb.StringPtr(avatar)
	u.OrganizationID = intdb.StringPtr(orgID)
	return u, nil
}

func (r ProjectRepository) loadManager(ctx context.Context, d *models.ProjectDetails) error {
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, d.ProjectManagerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	pub := u.ToPublic()
	d.ProjectManager = &pub
	return nil
}

func (r ProjectRepository) loadSupervisors(ctx context.Context, d *models.ProjectDetails) error {
	d.Supervisors = []models.PublicUser{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM project_supervisors ps
		JOIN users u ON u.id = ps.user_id
		WHERE ps.project_id = ?
		ORDER BY u.name`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return err
		}
		d.Supervisors = append(d.Supervisors, u.ToPublic())
	}
	return rows.Err()
}

func (r ProjectRepository) loadContractors(ctx context.Context, d *models.ProjectDetails) error {
	d.Contractors = []models.Provider{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+providerColumns+`
		FROM project_contractors pc
		JOIN providers pr ON pr.id = pc.provider_id
		WHERE pc.project_id = ?
		ORDER BY pr.name`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		pr, err := scanProvider(rows)
		if err != nil {
			return err
		}
		d.Contractors = append(d.Contractors, pr)
	}
	return rows.Err()
}

func (r ProjectRepository) loadParent(ctx context.Context, d *models.ProjectDetails) error {
	if d.ParentProjectID == nil {
		return nil
	}
	parent, err := scanProject(r.db().QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, *d.ParentProjectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	d.ParentProject = &parent
	return nil
}

func (r ProjectRepository) loadSubProjects(ctx context.Context, d *models.ProjectDetails) error {
	d.SubProjects = []models.Project{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE p.parent_project_id = ?
		ORDER BY p.created_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return err
		}
		d.SubProjects = append(d.SubProjects, p)
	}
	return rows.Err()
}

func (r ProjectRepository) loadTasks(ctx context.Context, d *models.ProjectDetails) error {
	d.Tasks = []models.Task{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.project_id = ?
		ORDER BY t.created_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return err
		}
		d.Tasks = append(d.Tasks, t)
	}
	return rows.Err()
}

func (r ProjectRepository) loadDocuments(ctx context.Context, d *models.ProjectDetails) error {
	d.Documents = []models.ProjectDocument{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, project_id, name, url, type, uploaded_at
		FROM project_documents
		WHERE project_id = ?
		ORDER BY uploaded_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var doc models.ProjectDocument
		var typ sql.NullString
		if err := rows.Scan(&doc.ID, &doc.ProjectID, &doc.Name, &doc.URL, &typ, &doc.UploadedAt); err != nil {
			return err
		}
		doc.Type = intdb.StringPtr(typ)
		d.Documents = append(d.Documents, doc)
	}
	return rows.Err()
}

func (r ProjectRepository) loadRequests(ctx context.Context, d *models.ProjectDetails) error {
	d.Requests = []models.Request{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM requests rq
		WHERE rq.project_id = ?
		ORDER BY rq.created_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return err
		}
		d.Requests = append(d.Requests, rq)
	}
	return rows.Err()
}

func (r ProjectRepository) loadKpis(ctx context.Context, d *models.ProjectDetails) error {
	kpis, err := r.kpisForProjects(ctx, []string{d.ID})
	if err != nil {
		return err
	}
	d.Kpis = kpis[d.ID]
	if d.Kpis == nil {
		d.Kpis = []models.Kpi{}
	}
	return nil
}

func (r ProjectRepository) loadTimeline(ctx context.Context, d *models.ProjectDetails) error {
	d.Timeline = []models.TimelineEvent{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, project_id, title, description, date, status
		FROM project_timeline
		WHERE project_id = ?
		ORDER BY date ASC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ev models.TimelineEvent
		var description, status sql.NullString
		if err := rows.Scan(&ev.ID, &ev.ProjectID, &ev.Title, &description, &ev.Date, &status); err != nil {
			return err
		}
		ev.Description = intdb.StringPtr(description)
		ev.Status = intdb.StringPtr(status)
		d.Timeline = append(d.Timeline, ev)
	}
	return rows.Err()
}

func (r ProjectRepository) loadBudget(ctx context.Context, d *models.ProjectDetails) error {
	d.BudgetDistributions = []models.BudgetDistribution{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, project_id, category, amount, spent
		FROM budget_distributions
		WHERE project_id = ?
		ORDER BY category`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b models.BudgetDistribution
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Category, &b.Amount, &b.Spent); err != nil {
			return err
		}
		d.BudgetDistributions = append(d.BudgetDistributions, b)
	}
	return rows.Err()
}

func (r ProjectRepository) loadContracts(ctx context.Context, d *models.ProjectDetails) error {
	d.Contracts = []models.ProjectContract{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, project_id, reference, provider_id, amount, signed_at, status
		FROM project_contracts
		WHERE project_id = ?
		ORDER BY signed_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.ProjectContract
		var providerID sql.NullString
		var signedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Reference, &providerID, &c.Amount, &signedAt, &c.Status); err != nil {
			return err
		}
		c.ProviderID = intdb.StringPtr(providerID)
		c.SignedAt = intdb.TimePtr(signedAt)
		d.Contracts = append(d.Contracts, c)
	}
	return rows.Err()
}

func (r ProjectRepository) loadEvaluations(ctx context.Context, d *models.ProjectDetails) error {
	d.Evaluations = []models.ProjectEvaluation{}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, project_id, evaluator_id, score, comment, evaluated_at
		FROM project_evaluations
		WHERE project_id = ?
		ORDER BY evaluated_at DESC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ev models.ProjectEvaluation
		var evaluatorID, comment sql.NullString
		if err := rows.Scan(&ev.ID, &ev.ProjectID, &evaluatorID, &ev.Score, &comment, &ev.EvaluatedAt); err != nil {
			return err
		}
		ev.EvaluatorID = intdb.StringPtr(evaluatorID)
		ev.Comment = intdb.StringPtr(comment)
		d.Evaluations = append(d.Evaluations, ev)
	}
	return rows.Err()
}
