package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project mirrors the projects table.
type Project struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      *string         `json:"description"`
	Objective        *string         `json:"objective"`
	Scope            *string         `json:"scope"`
	GeographicalArea *string         `json:"geographicalArea"`
	Client           *string         `json:"client"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Status           string          `json:"status"`
	Budget           decimal.Decimal `json:"budget"`
	Progress         float64         `json:"progress"`
	Contract         *string         `json:"contract"`
	Funder           *string         `json:"funder"`
	GovernmentEntity *string         `json:"governmentEntity"`
	RiskLevel        string          `json:"riskLevel"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	ProjectManagerID string          `json:"projectManagerId"`
	ParentProjectID  *string         `json:"parentProjectId"`
	LocationID       *string         `json:"locationId"`
}

// ProjectRef is the {id, name} projection used for parent projects and links.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectSummary is the curated list projection returned by the user project listing.
type ProjectSummary struct {
	Project
	ProjectManager *UserRef      `json:"projectManager"`
	Tasks          []TaskSummary `json:"tasks"`
	Kpis           []Kpi         `json:"kpis"`
}

// ProjectWithRefs is returned after create and update.
type ProjectWithRefs struct {
	Project
	ProjectManager *UserRef    `json:"projectManager"`
	Location       *Location   `json:"location"`
	ParentProject  *ProjectRef `json:"parentProject"`
}

// ProjectDetails is the full graph of a project.
type ProjectDetails struct {
	Project
	ProjectManager      *PublicUser          `json:"projectManager"`
	Supervisors         []PublicUser         `json:"supervisors"`
	Contractors         []Provider           `json:"contractors"`
	ParentProject       *Project             `json:"parentProject"`
	SubProjects         []Project            `json:"subProjects"`
	Tasks               []Task               `json:"tasks"`
	Documents           []ProjectDocument    `json:"documents"`
	Requests            []Request            `json:"requests"`
	Kpis                []Kpi                `json:"kpis"`
	Timeline            []TimelineEvent      `json:"timeline"`
	BudgetDistributions []BudgetDistribution `json:"budgetDistributions"`
	Contracts           []ProjectContract    `json:"contracts"`
	Evaluations         []ProjectEvaluation  `json:"evaluations"`
	Location            *Location            `json:"location"`
}

// ProjectDocument mirrors project_documents.
type ProjectDocument struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       *string   `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TimelineEvent mirrors project_timeline.
type TimelineEvent struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Status      *string   `json:"status"`
}

// BudgetDistribution mirrors budget_distributions.
type BudgetDistribution struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
}

// ProjectContract mirrors project_contracts.
type ProjectContract struct {
	ID         string          `json:"id"`
	ProjectID  string          `json:"projectId"`
	Reference  string          `json:"reference"`
	ProviderID *string         `json:"providerId"`
	Amount     decimal.Decimal `json:"amount"`
	SignedAt   *time.Time      `json:"signedAt"`
	Status     string          `json:"status"`
}

// ProjectEvaluation mirrors project_evaluations.
type ProjectEvaluation struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	EvaluatorID *string   `json:"evaluatorId"`
	Score       float64   `json:"score"`
	Comment     *string   `json:"comment"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// Location mirrors locations.
type Location struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LocationRef is the {id, name} projection of a location.
type LocationRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
