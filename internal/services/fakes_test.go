package services

import (
	"context"
	"strings"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
)

type fakeProjects struct {
	projects  map[string]models.Project
	locations map[string]bool
	details   map[string]*models.ProjectDetails
	summaries []models.ProjectSummary
	total     int

	calls     []string
	lastQuery repositories.ProjectQuery
	lastPage  domain.Page
	changes   repositories.ProjectChanges
	created   []models.Project

	err       error // returned by every read
	updateErr error
	createErr error
	dropAfter bool // row disappears between update and reload
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{
		projects:  map[string]models.Project{},
		locations: map[string]bool{},
		details:   map[string]*models.ProjectDetails{},
	}
}

func (f *fakeProjects) called(name string) { f.calls = append(f.calls, name) }

func (f *fakeProjects) FindDetails(_ context.Context, id string) (*models.ProjectDetails, error) {
	f.called("FindDetails")
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeProjects) CountByManager(_ context.Context, q repositories.ProjectQuery) (int, error) {
	f.called("CountByManager")
	f.lastQuery = q
	return f.total, f.err
}

func (f *fakeProjects) ListByManager(_ context.Context, q repositories.ProjectQuery, page domain.Page) ([]models.ProjectSummary, error) {
	f.called("ListByManager")
	f.lastQuery = q
	f.lastPage = page
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeProjects) InTx(_ context.Context, fn func(tx repositories.ProjectTx) error) error {
	f.called("InTx")
	return fn(f)
}

func (f *fakeProjects) LockForUpdate(_ context.Context, id string) (repositories.ProjectOwner, error) {
	f.called("LockForUpdate")
	if f.err != nil {
		return repositories.ProjectOwner{}, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return repositories.ProjectOwner{}, domain.ErrNotFound
	}
	return repositories.ProjectOwner{ID: p.ID, ProjectManagerID: p.ProjectManagerID}, nil
}

func (f *fakeProjects) ProjectExists(_ context.Context, id string) (bool, error) {
	f.called("ProjectExists")
	_, ok := f.projects[id]
	return ok, nil
}

func (f *fakeProjects) LocationExists(_ context.Context, id string) (bool, error) {
	f.called("LocationExists")
	return f.locations[id], nil
}

func (f *fakeProjects) Update(_ context.Context, id string, ch repositories.ProjectChanges) error {
	f.called("Update")
	if f.updateErr != nil {
		return f.updateErr
	}
	f.changes = ch
	p := f.projects[id]
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Status != nil {
		p.Status = *ch.Status
	}
	if ch.StartDate != nil {
		p.StartDate = *ch.StartDate
	}
	if ch.EndDate != nil {
		p.EndDate = *ch.EndDate
	}
	p.UpdatedAt = ch.UpdatedAt
	f.projects[id] = p
	if f.dropAfter {
		delete(f.projects, id)
	}
	return nil
}

func (f *fakeProjects) Create(_ context.Context, p models.Project) error {
	f.called("Create")
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjects) FindWithRefs(_ context.Context, id string) (*models.ProjectWithRefs, error) {
	f.called("FindWithRefs")
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &models.ProjectWithRefs{Project: p, ProjectManager: &models.UserRef{ID: p.ProjectManagerID}}, nil
}

type fakeUsers struct {
	byID    map[string]*models.User
	created []models.User
	members map[string][]models.PublicUser
	err     error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}, members: map[string][]models.PublicUser{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
		if u.OrganizationID != nil {
			f.members[*u.OrganizationID] = append(f.members[*u.OrganizationID], u.ToPublic())
		}
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u models.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	f.created = append(f.created, u)
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUsers) ListByOrganization(_ context.Context, orgID string) ([]models.PublicUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[orgID], nil
}

type fakeTasks struct {
	rows      []models.TaskSummary
	total     int
	open      int
	lastQuery repositories.TaskQuery
	lastPage  domain.Page
	lastLimit int
	err       error
}

func (f *fakeTasks) CountByAssignee(_ context.Context, q repositories.TaskQuery) (int, error) {
	f.lastQuery = q
	return f.total, f.err
}

func (f *fakeTasks) CountOpenByAssignee(_ context.Context, _ string) (int, error) {
	return f.open, f.err
}

func (f *fakeTasks) ListByAssignee(_ context.Context, q repositories.TaskQuery, page domain.Page) ([]models.TaskSummary, error) {
	f.lastQuery = q
	f.lastPage = page
	return f.rows, f.err
}

func (f *fakeTasks) RecentByAssignee(_ context.Context, _ string, limit int) ([]models.TaskSummary, error) {
	f.lastLimit = limit
	return f.rows, f.err
}

type fakeRequests struct {
	rows      []models.RequestWithRefs
	byID      map[string]*models.RequestWithRefs
	pending   int
	created   []models.Request
	lastQuery repositories.RequestQuery
	lastLimit int
	calls     int
	err       error
	createErr error
}

func (f *fakeRequests) Count(_ context.Context, q repositories.RequestQuery) (int, error) {
	f.calls++
	f.lastQuery = q
	return len(f.rows), f.err
}

func (f *fakeRequests) List(_ context.Context, q repositories.RequestQuery, _ domain.Page) ([]models.RequestWithRefs, error) {
	f.calls++
	f.lastQuery = q
	return f.rows, f.err
}

func (f *fakeRequests) Recent(_ context.Context, _ string, limit int) ([]models.RequestWithRefs, error) {
	f.calls++
	f.lastLimit = limit
	return f.rows, f.err
}

func (f *fakeRequests) CountPending(_ context.Context, _ string) (int, error) {
	return f.pending, f.err
}

func (f *fakeRequests) FindByID(_ context.Context, id string) (*models.RequestWithRefs, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rq, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rq, nil
}

func (f *fakeRequests) Create(_ context.Context, rq models.Request) error {
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rq)
	return nil
}

type fakeProviders struct {
	rows  []models.Provider
	byOrg map[string][]models.Provider
	orgs  map[string][]models.Organization
	err   error
}

func (f *fakeProviders) Count(_ context.Context, _ repositories.ProviderQuery) (int, error) {
	return len(f.rows), f.err
}

func (f *fakeProviders) List(_ context.Context, _ repositories.ProviderQuery, _ domain.Page) ([]models.Provider, error) {
	return f.rows, f.err
}

func (f *fakeProviders) ListByOrganization(_ context.Context, orgID string) ([]models.Provider, error) {
	return f.byOrg[orgID], f.err
}

func (f *fakeProviders) FindByID(_ context.Context, id string) (*models.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProviders) OrganizationsFor(_ context.Context, ids []string) (map[string][]models.Organization, error) {
	out := map[string][]models.Organization{}
	for _, id := range ids {
		if orgs, ok := f.orgs[id]; ok {
			out[id] = orgs
		}
	}
	return out, f.err
}

type fakeInventory struct {
	items     map[string]*models.InventoryItem
	listed    []models.InventoryItem
	stats     models.InventoryStats
	txs       []models.InventoryTransaction
	projects  []models.ProjectRef
	lastQuery repositories.InventoryQuery
	lastTxQ   repositories.TransactionQuery
	lastLimit int
	calls     int
	err       error
}

func (f *fakeInventory) CountItems(_ context.Context, q repositories.InventoryQuery) (int, error) {
	f.calls++
	f.lastQuery = q
	return len(f.listed), f.err
}

func (f *fakeInventory) ListItems(_ context.Context, q repositories.InventoryQuery, _ domain.Page) ([]models.InventoryItem, error) {
	f.calls++
	return f.listed, f.err
}

func (f *fakeInventory) Stats(_ context.Context, _ string) (models.InventoryStats, error) {
	f.calls++
	return f.stats, f.err
}

func (f *fakeInventory) CountTransactions(_ context.Context, q repositories.TransactionQuery) (int, error) {
	f.calls++
	f.lastTxQ = q
	return len(f.txs), f.err
}

func (f *fakeInventory) ListTransactions(_ context.Context, _ repositories.TransactionQuery, _ domain.Page) ([]models.InventoryTransaction, error) {
	f.calls++
	return f.txs, f.err
}

func (f *fakeInventory) FindItem(_ context.Context, id string) (*models.InventoryItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakeInventory) LatestTransactions(_ context.Context, _ string, limit int) ([]models.InventoryTransaction, error) {
	f.lastLimit = limit
	return f.txs, f.err
}

func (f *fakeInventory) ProjectsForItem(_ context.Context, _ string) ([]models.ProjectRef, error) {
	return f.projects, f.err
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }
