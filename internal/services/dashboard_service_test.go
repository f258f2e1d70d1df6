package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
)

func dashboardFixture() (DashboardService, *fakeProjects, *fakeTasks, *fakeRequests) {
	users := newFakeUsers(
		models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", OrganizationID: strPtr("org1")},
		models.User{ID: "u2", Name: "Bob", Email: "bob@example.com", OrganizationID: strPtr("org1")},
		models.User{ID: "loner", Name: "Lou", Email: "lou@example.com"},
	)
	projects := newFakeProjects()
	projects.total = 7
	projects.summaries = []models.ProjectSummary{{Project: models.Project{ID: "p1"}}}
	tasks := &fakeTasks{total: 12, open: 4, rows: []models.TaskSummary{{Task: models.Task{ID: "t1"}}}}
	requests := &fakeRequests{pending: 2, rows: []models.RequestWithRefs{{Request: models.Request{ID: "r1"}}}}
	svc := DashboardService{Users: users, Projects: projects, Tasks: tasks, Requests: requests}
	return svc, projects, tasks, requests
}

func TestGetDashboardData(t *testing.T) {
	svc, projects, tasks, requests := dashboardFixture()

	env, err := svc.GetDashboardData(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", env.Data.User.Name)
	assert.Equal(t, DashboardStats{Projects: 7, Tasks: 12, OpenTasks: 4, PendingRequests: 2}, env.Data.Stats)
	assert.Len(t, env.Data.Users, 2)
	assert.Len(t, env.Data.Requests, 1)
	assert.Equal(t, domain.Page{Number: 1, Size: 5}, projects.lastPage)
	assert.Equal(t, 10, tasks.lastLimit)
	assert.Equal(t, 5, requests.lastLimit)
}

func TestGetDashboardData_UserWithoutOrganization(t *testing.T) {
	svc, _, _, requests := dashboardFixture()
	env, err := svc.GetDashboardData(context.Background(), "loner")
	require.NoError(t, err)
	assert.Empty(t, env.Data.Users)
	assert.NotNil(t, env.Data.Requests)
	assert.Zero(t, requests.calls)
}

func TestGetDashboardData_Errors(t *testing.T) {
	svc, projects, _, _ := dashboardFixture()

	_, err := svc.GetDashboardData(context.Background(), "ghost")
	require.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetDashboardData(context.Background(), "")
	assert.True(t, domain.IsValidation(err))

	projects.err = errors.New("too many connections")
	_, err = svc.GetDashboardData(context.Background(), "u1")
	assert.True(t, domain.IsDatabase(err))
}

func TestGetTasksByUser(t *testing.T) {
	svc, _, tasks, _ := dashboardFixture()

	_, err := svc.GetTasksByUser(context.Background(), "u1", TaskFilters{Status: "ARCHIVED"})
	require.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "BLOCKED")

	env, err := svc.GetTasksByUser(context.Background(), "u1", TaskFilters{
		Status:      "DONE",
		PageRequest: domain.PageRequest{Page: intPtr(0), PageSize: intPtr(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "DONE", tasks.lastQuery.Status)
	assert.Equal(t, domain.Page{Number: 1, Size: 1}, tasks.lastPage)
	assert.Equal(t, 12, env.Total)
	assert.Equal(t, 12, env.LastPage)
}

func TestGetRecentRequests_Limit(t *testing.T) {
	svc, _, _, requests := dashboardFixture()
	ctx := context.Background()

	cases := []struct {
		limit *int
		want  int
	}{
		{nil, 5},
		{intPtr(0), 1},
		{intPtr(80), 50},
		{intPtr(12), 12},
	}
	for _, tc := range cases {
		_, err := svc.GetRecentRequests(ctx, "org1", tc.limit)
		require.NoError(t, err)
		assert.Equal(t, tc.want, requests.lastLimit)
	}

	svc.RecentRequestsLimit = 8
	_, err := svc.GetRecentRequests(ctx, "org1", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, requests.lastLimit)

	_, err = svc.GetRecentRequests(ctx, " ", nil)
	assert.True(t, domain.IsValidation(err))
}

func TestGetUsersBySameOrganization(t *testing.T) {
	svc, _, _, _ := dashboardFixture()

	env, err := svc.GetUsersBySameOrganization(context.Background(), "u2")
	require.NoError(t, err)
	assert.Len(t, env.Data, 2)

	_, err = svc.GetUsersBySameOrganization(context.Background(), "loner")
	require.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "organization")
}

func TestDashboardGetProjectsByUser_Delegates(t *testing.T) {
	svc, projects, _, _ := dashboardFixture()
	_, err := svc.GetProjectsByUser(context.Background(), "u1", ProjectFilters{Status: "BOGUS"})
	require.True(t, domain.IsValidation(err))
	assert.Empty(t, projects.calls)
}
