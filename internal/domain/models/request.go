package models

import "time"

// Request is a work/material request raised by a user of an organization.
type Request struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	Status         string    `json:"status"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	ProjectID      *string   `json:"projectId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RequestWithRefs adds the requester and project projections.
type RequestWithRefs struct {
	Request
	User    *UserRef    `json:"user"`
	Project *ProjectRef `json:"project"`
}
