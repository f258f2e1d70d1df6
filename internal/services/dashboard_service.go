package services

import (
	"context"
	"errors"
	"strings"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
	"projectdesk/internal/utils"
)

var TaskStatuses = []string{"TODO", "IN_PROGRESS", "DONE", "BLOCKED"}

const (
	dashboardProjects     = 5
	dashboardTasks        = 10
	defaultRecentRequests = 5
	maxRecentRequests     = 50
)

type DashboardStats struct {
	Projects        int `json:"projects"`
	Tasks           int `json:"tasks"`
	OpenTasks       int `json:"openTasks"`
	PendingRequests int `json:"pendingRequests"`
}

type DashboardData struct {
	User     models.PublicUser        `json:"user"`
	Projects []models.ProjectSummary  `json:"projects"`
	Tasks    []models.TaskSummary     `json:"tasks"`
	Users    []models.PublicUser      `json:"users"`
	Requests []models.RequestWithRefs `json:"requests"`
	Stats    DashboardStats           `json:"stats"`
}

type TaskFilters struct {
	Status string
	domain.PageRequest
}

type DashboardService struct {
	Users               UserStore
	Projects            ProjectStore
	Tasks               TaskStore
	Requests            RequestStore
	RecentRequestsLimit int
	RequestID           string
}

func (s DashboardService) findUser(ctx context.Context, userID string) (*models.User, error) {
	userID, err := utils.RequireID("userId", userID)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("user not found")
	}
	return u, err
}

// GetDashboardData aggregates what the home screen of userID shows.
func (s DashboardService) GetDashboardData(ctx context.Context, userID string) (domain.Envelope[DashboardData], error) {
	var out domain.Envelope[DashboardData]
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_dashboard_data", err)
	}

	data, err := s.collect(ctx, u)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_dashboard_data", err)
	}
	out.Data = data
	out.Message = "dashboard data retrieved"
	return out, nil
}

func (s DashboardService) collect(ctx context.Context, u *models.User) (DashboardData, error) {
	data := DashboardData{
		User:     u.ToPublic(),
		Users:    []models.PublicUser{},
		Requests: []models.RequestWithRefs{},
	}
	pq := repositories.ProjectQuery{ManagerID: u.ID}
	var err error

	if data.Stats.Projects, err = s.Projects.CountByManager(ctx, pq); err != nil {
		return data, err
	}
	if data.Projects, err = s.Projects.ListByManager(ctx, pq, domain.Page{Number: 1, Size: dashboardProjects}); err != nil {
		return data, err
	}
	if data.Stats.Tasks, err = s.Tasks.CountByAssignee(ctx, repositories.TaskQuery{AssigneeID: u.ID}); err != nil {
		return data, err
	}
	if data.Stats.OpenTasks, err = s.Tasks.CountOpenByAssignee(ctx, u.ID); err != nil {
		return data, err
	}
	if data.Tasks, err = s.Tasks.RecentByAssignee(ctx, u.ID, dashboardTasks); err != nil {
		return data, err
	}
	if data.Projects == nil {
		data.Projects = []models.ProjectSummary{}
	}
	if data.Tasks == nil {
		data.Tasks = []models.TaskSummary{}
	}

	orgID := utils.Deref(u.OrganizationID, "")
	if orgID == "" {
		return data, nil
	}
	users, err := s.Users.ListByOrganization(ctx, orgID)
	if err != nil {
		return data, err
	}
	if users != nil {
		data.Users = users
	}
	requests, err := s.Requests.Recent(ctx, orgID, s.recentLimit(nil))
	if err != nil {
		return data, err
	}
	if requests != nil {
		data.Requests = requests
	}
	if data.Stats.PendingRequests, err = s.Requests.CountPending(ctx, orgID); err != nil {
		return data, err
	}
	return data, nil
}

// GetProjectsByUser is the dashboard alias of ProjectService.GetProjectsByUser.
func (s DashboardService) GetProjectsByUser(ctx context.Context, userID string, f ProjectFilters) (domain.PageEnvelope[models.ProjectSummary], error) {
	return ProjectService{Projects: s.Projects, RequestID: s.RequestID}.GetProjectsByUser(ctx, userID, f)
}

// GetTasksByUser lists the tasks assigned to userID, latest due date first.
func (s DashboardService) GetTasksByUser(ctx context.Context, userID string, f TaskFilters) (domain.PageEnvelope[models.TaskSummary], error) {
	var out domain.PageEnvelope[models.TaskSummary]
	userID, err := utils.RequireID("userId", userID)
	if err != nil {
		return out, err
	}
	status := strings.TrimSpace(f.Status)
	if status != "" {
		if err := utils.OneOf("status", status, TaskStatuses); err != nil {
			return out, err
		}
	}

	page := domain.NewPage(f.PageRequest)
	q := repositories.TaskQuery{AssigneeID: userID, Status: status}
	total, err := s.Tasks.CountByAssignee(ctx, q)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_tasks_by_user", err)
	}
	rows, err := s.Tasks.ListByAssignee(ctx, q, page)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_tasks_by_user", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "user tasks retrieved"), nil
}

func (s DashboardService) recentLimit(limit *int) int {
	n := s.RecentRequestsLimit
	if n <= 0 {
		n = defaultRecentRequests
	}
	if limit != nil {
		n = *limit
	}
	return min(max(n, 1), maxRecentRequests)
}

// GetRecentRequests returns the newest requests of an organization. A nil limit uses the configured default.
func (s DashboardService) GetRecentRequests(ctx context.Context, orgID string, limit *int) (domain.Envelope[[]models.RequestWithRefs], error) {
	var out domain.Envelope[[]models.RequestWithRefs]
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return out, err
	}
	rows, err := s.Requests.Recent(ctx, orgID, s.recentLimit(limit))
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_recent_requests", err)
	}
	if rows == nil {
		rows = []models.RequestWithRefs{}
	}
	out.Data = rows
	out.Message = "recent requests retrieved"
	return out, nil
}

// GetUsersBySameOrganization lists the members of userID's organization, userID included.
func (s DashboardService) GetUsersBySameOrganization(ctx context.Context, userID string) (domain.Envelope[[]models.PublicUser], error) {
	var out domain.Envelope[[]models.PublicUser]
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_users_by_same_organization", err)
	}
	orgID := utils.Deref(u.OrganizationID, "")
	if orgID == "" {
		return out, domain.ValidationError{Field: "userId", Msg: "user does not belong to an organization"}
	}
	users, err := s.Users.ListByOrganization(ctx, orgID)
	if err != nil {
		return out, classify(s.RequestID, "dashboard", "get_users_by_same_organization", err)
	}
	if users == nil {
		users = []models.PublicUser{}
	}
	out.Data = users
	out.Message = "organization users retrieved"
	return out, nil
}
