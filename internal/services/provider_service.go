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

type ProviderFilters struct {
	Name string
	domain.PageRequest
}

type ProviderService struct {
	Providers ProviderStore
	Users     UserStore
	RequestID string
}

func (s ProviderService) GetAllProviders(ctx context.Context, f ProviderFilters) (domain.PageEnvelope[models.Provider], error) {
	page := domain.NewPage(f.PageRequest)
	q := repositories.ProviderQuery{Name: strings.TrimSpace(f.Name)}
	total, err := s.Providers.Count(ctx, q)
	if err != nil {
		return domain.PageEnvelope[models.Provider]{}, classify(s.RequestID, "provider", "get_all_providers", err)
	}
	rows, err := s.Providers.List(ctx, q, page)
	if err != nil {
		return domain.PageEnvelope[models.Provider]{}, classify(s.RequestID, "provider", "get_all_providers", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "providers retrieved"), nil
}

func (s ProviderService) GetProviderDetails(ctx context.Context, id string) (domain.Envelope[models.ProviderWithOrganizations], error) {
	var out domain.Envelope[models.ProviderWithOrganizations]
	id, err := utils.RequireID("providerId", id)
	if err != nil {
		return out, err
	}
	p, err := s.Providers.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return out, domain.NotFound("provider not found")
	}
	if err != nil {
		return out, classify(s.RequestID, "provider", "get_provider_details", err)
	}
	orgs, err := s.Providers.OrganizationsFor(ctx, []string{p.ID})
	if err != nil {
		return out, classify(s.RequestID, "provider", "get_provider_details", err)
	}
	out.Data = models.ProviderWithOrganizations{Provider: *p, Organizations: nonNil(orgs[p.ID])}
	out.Message = "provider details retrieved"
	return out, nil
}

// GetProvidersByUser lists the providers of the user's organization, each with its organizations.
func (s ProviderService) GetProvidersByUser(ctx context.Context, userID string) (domain.Envelope[[]models.ProviderWithOrganizations], error) {
	var out domain.Envelope[[]models.ProviderWithOrganizations]
	userID, err := utils.RequireID("userId", userID)
	if err != nil {
		return out, err
	}
	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return out, domain.NotFound("user not found")
	}
	if err != nil {
		return out, classify(s.RequestID, "provider", "get_providers_by_user", err)
	}

	result := []models.ProviderWithOrganizations{}
	orgID := utils.Deref(u.OrganizationID, "")
	if orgID != "" {
		providers, err := s.Providers.ListByOrganization(ctx, orgID)
		if err != nil {
			return out, classify(s.RequestID, "provider", "get_providers_by_user", err)
		}
		ids := make([]string, 0, len(providers))
		for _, p := range providers {
			ids = append(ids, p.ID)
		}
		orgs, err := s.Providers.OrganizationsFor(ctx, ids)
		if err != nil {
			return out, classify(s.RequestID, "provider", "get_providers_by_user", err)
		}
		for _, p := range providers {
			result = append(result, models.ProviderWithOrganizations{Provider: p, Organizations: nonNil(orgs[p.ID])})
		}
	}

	out.Data = result
	out.Message = "user providers retrieved"
	return out, nil
}
