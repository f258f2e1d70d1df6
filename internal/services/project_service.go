package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
	"projectdesk/internal/utils"
)

var (
	// ProjectListStatuses filters the project listing.
	ProjectListStatuses = []string{"DRAFT", "ACTIVE", "COMPLETED", "CANCELLED", "ON_HOLD"}
	// ProjectUpdateStatuses are accepted by UpdateProject. They are not the same set as ProjectListStatuses.
	ProjectUpdateStatuses = []string{"PLANNED", "IN_PROGRESS", "ON_HOLD", "COMPLETED", "CANCELLED"}
	RiskLevels            = []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}
)

const (
	defaultProjectStatus = "PLANNED"
	defaultRiskLevel     = "LOW"
)

type ProjectFilters struct {
	Status string
	Name   string
	domain.PageRequest
}

// ProjectUpdate lists the fields a client may change. JSON keys not declared here are dropped on decode.
type ProjectUpdate struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Objective        *string          `json:"objective"`
	Scope            *string          `json:"scope"`
	GeographicalArea *string          `json:"geographicalArea"`
	Client           *string          `json:"client"`
	StartDate        *string          `json:"startDate"`
	EndDate          *string          `json:"endDate"`
	Status           *string          `json:"status"`
	Budget           *decimal.Decimal `json:"budget"`
	Progress         *decimal.Decimal `json:"progress"`
	Contract         *string          `json:"contract"`
	Funder           *string          `json:"funder"`
	GovernmentEntity *string          `json:"governmentEntity"`
	RiskLevel        *string          `json:"riskLevel"`
	LocationID       *string          `json:"locationId"`
	ParentProjectID  *string          `json:"parentProjectId"`
}

type ProjectInput struct {
	Name             string           `json:"name"`
	Description      *string          `json:"description"`
	Objective        *string          `json:"objective"`
	Scope            *string          `json:"scope"`
	GeographicalArea *string          `json:"geographicalArea"`
	Client           *string          `json:"client"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Status           string           `json:"status"`
	Budget           *decimal.Decimal `json:"budget"`
	Progress         *decimal.Decimal `json:"progress"`
	Contract         *string          `json:"contract"`
	Funder           *string          `json:"funder"`
	GovernmentEntity *string          `json:"governmentEntity"`
	RiskLevel        string           `json:"riskLevel"`
	LocationID       *string          `json:"locationId"`
	ParentProjectID  *string          `json:"parentProjectId"`
	ProjectManagerID string           `json:"projectManagerId"`
}

type ProjectService struct {
	Projects  ProjectStore
	Now       func() time.Time
	RequestID string
}

func (s ProjectService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

// GetProjectDetails returns the full graph of one project.
func (s ProjectService) GetProjectDetails(ctx context.Context, id string) (domain.Envelope[*models.ProjectDetails], error) {
	var out domain.Envelope[*models.ProjectDetails]
	id, err := utils.RequireID("projectId", id)
	if err != nil {
		return out, err
	}

	details, err := s.Projects.FindDetails(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return out, domain.NotFound("project not found")
	}
	if err != nil {
		return out, classify(s.RequestID, "project", "get_project_details", err)
	}
	out.Data = details
	out.Message = "project details retrieved"
	return out, nil
}

// GetProjectsByUser lists the projects managed by userID, newest first.
func (s ProjectService) GetProjectsByUser(ctx context.Context, userID string, f ProjectFilters) (domain.PageEnvelope[models.ProjectSummary], error) {
	var out domain.PageEnvelope[models.ProjectSummary]
	userID, err := utils.RequireID("userId", userID)
	if err != nil {
		return out, err
	}
	status := strings.TrimSpace(f.Status)
	if status != "" {
		if err := utils.OneOf("status", status, ProjectListStatuses); err != nil {
			return out, err
		}
	}

	page := domain.NewPage(f.PageRequest)
	q := repositories.ProjectQuery{ManagerID: userID, Status: status, Name: strings.TrimSpace(f.Name)}

	total, err := s.Projects.CountByManager(ctx, q)
	if err != nil {
		return out, classify(s.RequestID, "project", "get_projects_by_user", err)
	}
	rows, err := s.Projects.ListByManager(ctx, q, page)
	if err != nil {
		return out, classify(s.RequestID, "project", "get_projects_by_user", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "user projects retrieved"), nil
}

// UpdateProject applies the whitelisted fields of upd. A non-empty userID must be the project manager.
func (s ProjectService) UpdateProject(ctx context.Context, projectID string, upd ProjectUpdate, userID string) (domain.Envelope[*models.ProjectWithRefs], error) {
	var out domain.Envelope[*models.ProjectWithRefs]
	projectID, err := utils.RequireID("projectId", projectID)
	if err != nil {
		return out, err
	}
	userID = strings.TrimSpace(userID)

	err = s.Projects.InTx(ctx, func(tx repositories.ProjectTx) error {
		owner, err := tx.LockForUpdate(ctx, projectID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("project not found")
		}
		if err != nil {
			return err
		}
		if userID != "" && owner.ProjectManagerID != userID {
			return domain.ValidationError{Msg: "only the project manager can update this project", Err: domain.ErrForbidden}
		}

		ch, err := buildProjectChanges(projectID, upd)
		if err != nil {
			return err
		}
		if err := checkProjectRefs(ctx, tx, ch); err != nil {
			return err
		}
		if ch == (repositories.ProjectChanges{}) {
			return domain.Invalid("no valid field to update")
		}

		ch.UpdatedAt = s.now()
		if err := tx.Update(ctx, projectID, ch); err != nil {
			return err
		}
		out.Data, err = tx.FindWithRefs(ctx, projectID)
		return err
	})
	if err != nil {
		return domain.Envelope[*models.ProjectWithRefs]{}, classifyWrite(s.RequestID, "project", "update_project", "project", err)
	}

	utils.LogEvent(s.RequestID, "project", "update_project", "project_id="+projectID)
	out.Message = "project updated"
	return out, nil
}

// buildProjectChanges validates each present field. UpdatedAt is left zero.
func buildProjectChanges(projectID string, upd ProjectUpdate) (repositories.ProjectChanges, error) {
	var ch repositories.ProjectChanges

	if upd.Name != nil {
		name, err := utils.RequireText("name", *upd.Name)
		if err != nil {
			return ch, err
		}
		ch.Name = &name
	}
	if upd.Status != nil {
		status := strings.TrimSpace(*upd.Status)
		if err := utils.OneOf("status", status, ProjectUpdateStatuses); err != nil {
			return ch, err
		}
		ch.Status = &status
	}
	if upd.Budget != nil {
		if upd.Budget.IsNegative() {
			return ch, domain.ValidationError{Field: "budget", Msg: "must be a positive number"}
		}
		budget := *upd.Budget
		ch.Budget = &budget
	}
	if upd.Progress != nil {
		progress := upd.Progress.InexactFloat64()
		if err := utils.InRange("progress", progress, 0, 100); err != nil {
			return ch, err
		}
		ch.Progress = &progress
	}
	if upd.RiskLevel != nil {
		risk := strings.TrimSpace(*upd.RiskLevel)
		if err := utils.OneOf("riskLevel", risk, RiskLevels); err != nil {
			return ch, err
		}
		ch.RiskLevel = &risk
	}
	if upd.StartDate != nil {
		start, err := utils.RequireDate("startDate", *upd.StartDate)
		if err != nil {
			return ch, err
		}
		ch.StartDate = &start
	}
	if upd.EndDate != nil {
		end, err := utils.RequireDate("endDate", *upd.EndDate)
		if err != nil {
			return ch, err
		}
		ch.EndDate = &end
	}
	if ch.StartDate != nil && ch.EndDate != nil && !ch.EndDate.After(*ch.StartDate) {
		return ch, domain.ValidationError{Field: "endDate", Msg: "must be after startDate"}
	}
	if upd.ParentProjectID != nil {
		parentID, err := utils.RequireID("parentProjectId", *upd.ParentProjectID)
		if err != nil {
			return ch, err
		}
		if parentID == projectID {
			return ch, domain.ValidationError{Field: "parentProjectId", Msg: "a project cannot be its own parent"}
		}
		ch.ParentProjectID = &parentID
	}
	if upd.LocationID != nil {
		locationID, err := utils.RequireID("locationId", *upd.LocationID)
		if err != nil {
			return ch, err
		}
		ch.LocationID = &locationID
	}

	ch.Description = upd.Description
	ch.Objective = upd.Objective
	ch.Scope = upd.Scope
	ch.GeographicalArea = upd.GeographicalArea
	ch.Client = upd.Client
	ch.Contract = upd.Contract
	ch.Funder = upd.Funder
	ch.GovernmentEntity = upd.GovernmentEntity
	return ch, nil
}

func checkProjectRefs(ctx context.Context, tx repositories.ProjectTx, ch repositories.ProjectChanges) error {
	if ch.ParentProjectID != nil {
		ok, err := tx.ProjectExists(ctx, *ch.ParentProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ValidationError{Field: "parentProjectId", Msg: "parent project not found", Err: domain.ErrNotFound}
		}
	}
	if ch.LocationID != nil {
		ok, err := tx.LocationExists(ctx, *ch.LocationID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ValidationError{Field: "locationId", Msg: "location not found", Err: domain.ErrNotFound}
		}
	}
	return nil
}

// CreateProject inserts a project owned by projectManagerID. End before start is accepted.
func (s ProjectService) CreateProject(ctx context.Context, in ProjectInput, projectManagerID string) (domain.Envelope[*models.ProjectWithRefs], error) {
	var out domain.Envelope[*models.ProjectWithRefs]
	managerID, err := utils.RequireID("projectManagerId", projectManagerID)
	if err != nil {
		return out, err
	}
	start, err := utils.RequireDate("startDate", in.StartDate)
	if err != nil {
		return out, err
	}
	end, err := utils.RequireDate("endDate", in.EndDate)
	if err != nil {
		return out, err
	}

	now := s.now()
	p := models.Project{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Objective:        in.Objective,
		Scope:            in.Scope,
		GeographicalArea: in.GeographicalArea,
		Client:           in.Client,
		StartDate:        start,
		EndDate:          end,
		Status:           utils.TrimOrEmpty(in.Status),
		Contract:         in.Contract,
		Funder:           in.Funder,
		GovernmentEntity: in.GovernmentEntity,
		RiskLevel:        utils.TrimOrEmpty(in.RiskLevel),
		CreatedAt:        now,
		UpdatedAt:        now,
		ProjectManagerID: managerID,
		ParentProjectID:  utils.TrimPtr(in.ParentProjectID),
		LocationID:       utils.TrimPtr(in.LocationID),
	}
	if p.Status == "" {
		p.Status = defaultProjectStatus
	}
	if p.RiskLevel == "" {
		p.RiskLevel = defaultRiskLevel
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if in.Progress != nil {
		p.Progress = in.Progress.InexactFloat64()
	}

	err = s.Projects.InTx(ctx, func(tx repositories.ProjectTx) error {
		if err := tx.Create(ctx, p); err != nil {
			return err
		}
		out.Data, err = tx.FindWithRefs(ctx, p.ID)
		return err
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.Envelope[*models.ProjectWithRefs]{}, domain.ValidationError{Field: "name", Msg: "a project with this name already exists", Err: domain.ErrDuplicate}
	}
	if err != nil {
		return domain.Envelope[*models.ProjectWithRefs]{}, classify(s.RequestID, "project", "create_project", err)
	}

	utils.LogEvent(s.RequestID, "project", "create_project", "project_id="+p.ID)
	out.Message = "project created"
	return out, nil
}
