package models

import "time"

// Task belongs to a project.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	CompletedAt  *time.Time `json:"completedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	AssignedToID *string    `json:"assignedToId"`
	ProjectID    string     `json:"projectId"`
	LocationID   *string    `json:"locationId"`
	RequestID    *string    `json:"requestId"`
}

// TaskSummary is a task with its assignee and location projections.
type TaskSummary struct {
	Task
	AssignedTo *UserRef     `json:"assignedTo"`
	Location   *LocationRef `json:"location"`
}

// Kpi is a project indicator.
type Kpi struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"-"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Value         float64    `json:"value"`
	Target        *float64   `json:"target"`
	Unit          *string    `json:"unit"`
	Trend         *string    `json:"trend"`
	Category      *string    `json:"category"`
	Period        *string    `json:"period"`
	Date          *time.Time `json:"date"`
	RelatedToType *string    `json:"relatedToType"`
	RelatedToID   *string    `json:"relatedToId"`
}
