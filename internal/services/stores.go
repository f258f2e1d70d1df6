package services

import (
	"context"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
)

// Store interfaces are satisfied by the MySQL repositories and by in-memory fakes in tests.

type ProjectStore interface {
	FindDetails(ctx context.Context, id string) (*models.ProjectDetails, error)
	CountByManager(ctx context.Context, q repositories.ProjectQuery) (int, error)
	ListByManager(ctx context.Context, q repositories.ProjectQuery, page domain.Page) ([]models.ProjectSummary, error)
	InTx(ctx context.Context, fn func(tx repositories.ProjectTx) error) error
}

type TaskStore interface {
	CountByAssignee(ctx context.Context, q repositories.TaskQuery) (int, error)
	CountOpenByAssignee(ctx context.Context, userID string) (int, error)
	ListByAssignee(ctx context.Context, q repositories.TaskQuery, page domain.Page) ([]models.TaskSummary, error)
	RecentByAssignee(ctx context.Context, userID string, limit int) ([]models.TaskSummary, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) error
	ListByOrganization(ctx context.Context, orgID string) ([]models.PublicUser, error)
}

type RequestStore interface {
	Count(ctx context.Context, q repositories.RequestQuery) (int, error)
	List(ctx context.Context, q repositories.RequestQuery, page domain.Page) ([]models.RequestWithRefs, error)
	Recent(ctx context.Context, orgID string, limit int) ([]models.RequestWithRefs, error)
	CountPending(ctx context.Context, orgID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.RequestWithRefs, error)
	Create(ctx context.Context, rq models.Request) error
}

type ProviderStore interface {
	Count(ctx context.Context, q repositories.ProviderQuery) (int, error)
	List(ctx context.Context, q repositories.ProviderQuery, page domain.Page) ([]models.Provider, error)
	ListByOrganization(ctx context.Context, orgID string) ([]models.Provider, error)
	FindByID(ctx context.Context, id string) (*models.Provider, error)
	OrganizationsFor(ctx context.Context, providerIDs []string) (map[string][]models.Organization, error)
}

type InventoryStore interface {
	CountItems(ctx context.Context, q repositories.InventoryQuery) (int, error)
	ListItems(ctx context.Context, q repositories.InventoryQuery, page domain.Page) ([]models.InventoryItem, error)
	Stats(ctx context.Context, orgID string) (models.InventoryStats, error)
	CountTransactions(ctx context.Context, q repositories.TransactionQuery) (int, error)
	ListTransactions(ctx context.Context, q repositories.TransactionQuery, page domain.Page) ([]models.InventoryTransaction, error)
	FindItem(ctx context.Context, id string) (*models.InventoryItem, error)
	LatestTransactions(ctx context.Context, itemID string, limit int) ([]models.InventoryTransaction, error)
	ProjectsForItem(ctx context.Context, itemID string) ([]models.ProjectRef, error)
}
