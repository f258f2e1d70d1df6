package models

import "time"

type Provider struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Contact     *string   `json:"contact"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	UserID      *string   `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProviderWithOrganizations struct {
	Provider
	Organizations []Organization `json:"organizations"`
}
