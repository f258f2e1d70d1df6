package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	intdb "projectdesk/internal/db"
	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

// ProjectQuery filters the projects managed by one user.
type ProjectQuery struct {
	ManagerID string
	Status    string
	Name      string
}

// ProjectChanges holds the already validated columns of an update. Nil fields are left untouched.
type ProjectChanges struct {
	Name             *string
	Description      *string
	Objective        *string
	Scope            *string
	GeographicalArea *string
	Client           *string
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *string
	Budget           *decimal.Decimal
	Progress         *float64
	Contract         *string
	Funder           *string
	GovernmentEntity *string
	RiskLevel        *string
	LocationID       *string
	ParentProjectID  *string
	UpdatedAt        time.Time
}

// ProjectOwner is the locked row read before a write.
type ProjectOwner struct {
	ID               string
	ProjectManagerID string
}

// ProjectTx is the set of project operations available inside a transaction.
type ProjectTx interface {
	LockForUpdate(ctx context.Context, id string) (ProjectOwner, error)
	ProjectExists(ctx context.Context, id string) (bool, error)
	LocationExists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, ch ProjectChanges) error
	Create(ctx context.Context, p models.Project) error
	FindWithRefs(ctx context.Context, id string) (*models.ProjectWithRefs, error)
}

type ProjectRepository struct {
	DB *sql.DB
	tx intdb.DBTX
}

func NewProjectRepository(conn *sql.DB) ProjectRepository {
	return ProjectRepository{DB: conn}
}

func (r ProjectRepository) db() intdb.DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.DB
}

// InTx runs fn against a repository bound to a single transaction.
func (r ProjectRepository) InTx(ctx context.Context, fn func(tx ProjectTx) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return intdb.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(ProjectRepository{DB: r.DB, tx: tx})
	})
}

const projectColumns = `p.id, p.name, p.description, p.objective, p.scope, p.geographical_area, p.client,
	p.start_date, p.end_date, p.status, p.budget, p.progress, p.contract, p.funder, p.government_entity,
	p.risk_level, p.created_at, p.updated_at, p.project_manager_id, p.parent_project_id, p.location_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(sc rowScanner, extra ...any) (models.Project, error) {
	var (
		p                                   models.Project
		description, objective, scope, area sql.NullString
		client, contract, funder, govEntity sql.NullString
		parentID, locationID                sql.NullString
	)
	dest := []any{
		&p.ID, &p.Name, &description, &objective, &scope, &area, &client,
		&p.StartDate, &p.EndDate, &p.Status, &p.Budget, &p.Progress, &contract, &funder, &govEntity,
		&p.RiskLevel, &p.CreatedAt, &p.UpdatedAt, &p.ProjectManagerID, &parentID, &locationID,
	}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return models.Project{}, err
	}
	p.Description = intdb.StringPtr(description)
	p.Objective = intdb.StringPtr(objective)
	p.Scope = intdb.StringPtr(scope)
	p.GeographicalArea = intdb.StringPtr(area)
	p.Client = intdb.StringPtr(client)
	p.Contract = intdb.StringPtr(contract)
	p.Funder = intdb.StringPtr(funder)
	p.GovernmentEntity = intdb.StringPtr(govEntity)
	p.ParentProjectID = intdb.StringPtr(parentID)
	p.LocationID = intdb.StringPtr(locationID)
	return p, nil
}

// LockForUpdate reads the ownership columns with a row lock. Missing rows yield domain.ErrNotFound.
func (r ProjectRepository) LockForUpdate(ctx context.Context, id string) (ProjectOwner, error) {
	var o ProjectOwner
	err := r.db().QueryRowContext(ctx,
		`SELECT id, project_manager_id FROM projects WHERE id = ? FOR UPDATE`, id,
	).Scan(&o.ID, &o.ProjectManagerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectOwner{}, domain.ErrNotFound
	}
	if err != nil {
		return ProjectOwner{}, fmt.Errorf("lock project: %w", err)
	}
	return o, nil
}

func (r ProjectRepository) ProjectExists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db(), `SELECT 1 FROM projects WHERE id = ? LIMIT 1`, id)
}

func (r ProjectRepository) LocationExists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db(), `SELECT 1 FROM locations WHERE id = ? LIMIT 1`, id)
}

func exists(ctx context.Context, q intdb.DBTX, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update writes the non-nil columns of ch plus updated_at.
func (r ProjectRepository) Update(ctx context.Context, id string, ch ProjectChanges) error {
	sets := make([]string, 0, 18)
	args := make([]any, 0, 19)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if ch.Name != nil {
		add("name", *ch.Name)
	}
	if ch.Description != nil {
		add("description", *ch.Description)
	}
	if ch.Objective != nil {
		add("objective", *ch.Objective)
	}
	if ch.Scope != nil {
		add("scope", *ch.Scope)
	}
	if ch.GeographicalArea != nil {
		add("geographical_area", *ch.GeographicalArea)
	}
	if ch.Client != nil {
		add("client", *ch.Client)
	}
	if ch.StartDate != nil {
		add("start_date", *ch.StartDate)
	}
	if ch.EndDate != nil {
		add("end_date", *ch.EndDate)
	}
	if ch.Status != nil {
		add("status", *ch.Status)
	}
	if ch.Budget != nil {
		add("budget", *ch.Budget)
	}
	if ch.Progress != nil {
		add("progress", *ch.Progress)
	}
	if ch.Contract != nil {
		add("contract", *ch.Contract)
	}
	if ch.Funder != nil {
		add("funder", *ch.Funder)
	}
	if ch.GovernmentEntity != nil {
		add("government_entity", *ch.GovernmentEntity)
	}
	if ch.RiskLevel != nil {
		add("risk_level", *ch.RiskLevel)
	}
	if ch.LocationID != nil {
		add("location_id", *ch.LocationID)
	}
	if ch.ParentProjectID != nil {
		add("parent_project_id", *ch.ParentProjectID)
	}
	add("updated_at", ch.UpdatedAt)
	args = append(args, id)

	_, err := r.db().ExecContext(ctx, `UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return writeErr("update project", err)
}

func (r ProjectRepository) Create(ctx context.Context, p models.Project) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO projects (id, name, description, objective, scope, geographical_area, client,
			start_date, end_date, status, budget, progress, contract, funder, government_entity,
			risk_level, created_at, updated_at, project_manager_id, parent_project_id, location_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, intdb.NullIfEmpty(p.Description), intdb.NullIfEmpty(p.Objective), intdb.NullIfEmpty(p.Scope),
		intdb.NullIfEmpty(p.GeographicalArea), intdb.NullIfEmpty(p.Client),
		p.StartDate, p.EndDate, p.Status, p.Budget, p.Progress,
		intdb.NullIfEmpty(p.Contract), intdb.NullIfEmpty(p.Funder), intdb.NullIfEmpty(p.GovernmentEntity),
		p.RiskLevel, p.CreatedAt, p.UpdatedAt, p.ProjectManagerID,
		intdb.NullIfEmpty(p.ParentProjectID), intdb.NullIfEmpty(p.LocationID),
	)
	return writeErr("insert project", err)
}

// writeErr tags duplicate keys with domain.ErrDuplicate.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if intdb.IsDuplicate(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FindWithRefs loads a project with its manager {id, email}, location and parent {id, name}.
func (r ProjectRepository) FindWithRefs(ctx context.Context, id string) (*models.ProjectWithRefs, error) {
	var (
		mgrID, mgrEmail, locID, locName, locAddr sql.NullString
		locLat, locLng                           sql.NullFloat64
		parentID, parentName                     sql.NullString
	)
	row := r.db().QueryRowContext(ctx, `
		SELECT `+projectColumns+`,
			u.id, u.email,
			l.id, l.name, l.address, l.latitude, l.longitude,
			pp.id, pp.name
		FROM projects p
		LEFT JOIN users u ON u.id = p.project_manager_id
		LEFT JOIN locations l ON l.id = p.location_id
		LEFT JOIN projects pp ON pp.id = p.parent_project_id
		WHERE p.id = ?
		LIMIT 1`, id)
	p, err := scanProject(row, &mgrID, &mgrEmail, &locID, &locName, &locAddr, &locLat, &locLng, &parentID, &parentName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}

	out := &models.ProjectWithRefs{Project: p}
	if mgrID.Valid {
		out.ProjectManager = &models.UserRef{ID: mgrID.String, Email: mgrEmail.String}
	}
	if locID.Valid {
		out.Location = &models.Location{
			ID:        locID.String,
			Name:      locName.String,
			Address:   intdb.StringPtr(locAddr),
			Latitude:  intdb.FloatPtr(locLat),
			Longitude: intdb.FloatPtr(locLng),
		}
	}
	if parentID.Valid {
		out.ParentProject = &models.ProjectRef{ID: parentID.String, Name: parentName.String}
	}
	return out, nil
}

func (q ProjectQuery) where() (string, []any) {
	conds := []string{"p.project_manager_id = ?"}
	args := []any{q.ManagerID}
	if q.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, q.Status)
	}
	if strings.TrimSpace(q.Name) != "" {
		conds = append(conds, "LOWER(p.name) LIKE ?")
		args = append(args, intdb.LikeContains(q.Name))
	}
	return strings.Join(conds, " AND "), args
}

func (r ProjectRepository) CountByManager(ctx context.Context, q ProjectQuery) (int, error) {
	where, args := q.where()
	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM projects p WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return total, nil
}

// ListByManager returns one page of projects, newest first, with their tasks and kpis.
func (r ProjectRepository) ListByManager(ctx context.Context, q ProjectQuery, page domain.Page) ([]models.ProjectSummary, error) {
	where, args := q.where()
	args = append(args, page.Take(), page.Skip())
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+projectColumns+`, u.id, u.name, u.avatar
		FROM projects p
		LEFT JOIN users u ON u.id = p.project_manager_id
		WHERE `+where+`
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var (
		out []models.ProjectSummary
		ids []string
	)
	for rows.Next() {
		var mgrID, mgrName, mgrAvatar sql.NullString
		p, err := scanProject(rows, &mgrID, &mgrName, &mgrAvatar)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		s := models.ProjectSummary{Project: p, Tasks: []models.TaskSummary{}, Kpis: []models.Kpi{}}
		if mgrID.Valid {
			s.ProjectManager = &models.UserRef{ID: mgrID.String, Name: mgrName.String, Avatar: intdb.StringPtr(mgrAvatar)}
		}
		out = append(out, s)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	tasks, err := r.tasksForProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	kpis, err := r.kpisForProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if ts, ok := tasks[out[i].ID]; ok {
			out[i].Tasks = ts
		}
		if ks, ok := kpis[out[i].ID]; ok {
			out[i].Kpis = ks
		}
	}
	return out, nil
}

func (r ProjectRepository) tasksForProjects(ctx context.Context, ids []string) (map[string][]models.TaskSummary, error) {
	marks, args := intdb.InPlaceholders(ids)
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+taskColumns+`, u.id, u.name, l.id, l.name
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to_id
		LEFT JOIN locations l ON l.id = t.location_id
		WHERE t.project_id IN (`+marks+`)
		ORDER BY t.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.TaskSummary, len(ids))
	for rows.Next() {
		var userID, userName, locID, locName sql.NullString
		t, err := scanTask(rows, &userID, &userName, &locID, &locName)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		ts := models.TaskSummary{Task: t}
		if userID.Valid {
			ts.AssignedTo = &models.UserRef{ID: userID.String, Name: userName.String}
		}
		if locID.Valid {
			ts.Location = &models.LocationRef{ID: locID.String, Name: locName.String}
		}
		out[t.ProjectID] = append(out[t.ProjectID], ts)
	}
	return out, rows.Err()
}

func (r ProjectRepository) kpisForProjects(ctx context.Context, ids []string) (map[string][]models.Kpi, error) {
	marks, args := intdb.InPlaceholders(ids)
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+kpiColumns+`
		FROM kpis k
		WHERE k.project_id IN (`+marks+`)
		ORDER BY k.date DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("load kpis: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Kpi, len(ids))
	for rows.Next() {
		k, err := scanKpi(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kpi: %w", err)
		}
		out[k.ProjectID] = append(out[k.ProjectID], k)
	}
	return out, rows.Err()
}

const kpiColumns = `k.id, k.project_id, k.name, k.description, k.value, k.target, k.unit, k.trend,
	k.category, k.period, k.date, k.related_to_type, k.related_to_id`

func scanKpi(sc rowScanner) (models.Kpi, error) {
	var (
		k                                  models.Kpi
		description, unit, trend, category sql.NullString
		period, relatedType, relatedID     sql.NullString
		target                             sql.NullFloat64
		date                               sql.NullTime
	)
	if err := sc.Scan(&k.ID, &k.ProjectID, &k.Name, &description, &k.Value, &target, &unit, &trend,
		&category, &period, &date, &relatedType, &relatedID); err != nil {
		return models.Kpi{}, err
	}
	k.Description = intdb.StringPtr(description)
	k.Target = intdb.FloatPtr(target)
	k.Unit = intdb.StringPtr(unit)
	k.Trend = intdb.StringPtr(trend)
	k.Category = intdb.StringPtr(category)
	k.Period = intdb.StringPtr(period)
	k.Date = intdb.TimePtr(date)
	k.RelatedToType = intdb.StringPtr(relatedType)
	k.RelatedToID = intdb.StringPtr(relatedID)
	return k, nil
}
