package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/repositories"
	"projectdesk/internal/utils"
)

const RequestPending = "pending"

var RequestStatuses = []string{RequestPending, "approved", "rejected"}

type RequestFilters struct {
	Status         string
	OrganizationID string
	domain.PageRequest
}

type RequestInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ProjectID   *string `json:"projectId"`
}

type RequestService struct {
	Requests  RequestStore
	Users     UserStore
	Now       func() time.Time
	RequestID string
}

func (s RequestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s RequestService) GetAllRequests(ctx context.Context, f RequestFilters) (domain.PageEnvelope[models.RequestWithRefs], error) {
	var out domain.PageEnvelope[models.RequestWithRefs]
	status := strings.ToLower(strings.TrimSpace(f.Status))
	if status != "" {
		if err := utils.OneOf("status", status, RequestStatuses); err != nil {
			return out, err
		}
	}

	page := domain.NewPage(f.PageRequest)
	q := repositories.RequestQuery{Status: status, OrganizationID: strings.TrimSpace(f.OrganizationID)}
	total, err := s.Requests.Count(ctx, q)
	if err != nil {
		return out, classify(s.RequestID, "request", "get_all_requests", err)
	}
	rows, err := s.Requests.List(ctx, q, page)
	if err != nil {
		return out, classify(s.RequestID, "request", "get_all_requests", err)
	}
	return domain.NewPageEnvelope(page, total, rows, "requests retrieved"), nil
}

func (s RequestService) GetRequestByID(ctx context.Context, id string) (domain.Envelope[*models.RequestWithRefs], error) {
	var out domain.Envelope[*models.RequestWithRefs]
	id, err := utils.RequireID("requestId", id)
	if err != nil {
		return out, err
	}
	rq, err := s.Requests.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return out, domain.NotFound("request not found")
	}
	if err != nil {
		return out, classify(s.RequestID, "request", "get_request_by_id", err)
	}
	out.Data = rq
	out.Message = "request retrieved"
	return out, nil
}

func (s RequestService) GetRequestsByOrganization(ctx context.Context, orgID string, f RequestFilters) (domain.PageEnvelope[models.RequestWithRefs], error) {
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return domain.PageEnvelope[models.RequestWithRefs]{}, err
	}
	f.OrganizationID = orgID
	return s.GetAllRequests(ctx, f)
}

// CreateRequest files a pending request on behalf of userID's organization.
func (s RequestService) CreateRequest(ctx context.Context, in RequestInput, userID string) (domain.Envelope[*models.RequestWithRefs], error) {
	var out domain.Envelope[*models.RequestWithRefs]
	userID, err := utils.RequireID("userId", userID)
	if err != nil {
		return out, err
	}
	title, err := utils.RequireText("title", in.Title)
	if err != nil {
		return out, err
	}

	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return out, domain.NotFound("user not found")
	}
	if err != nil {
		return out, classify(s.RequestID, "request", "create_request", err)
	}
	orgID := utils.Deref(u.OrganizationID, "")
	if orgID == "" {
		return out, domain.ValidationError{Field: "userId", Msg: "user does not belong to an organization"}
	}

	rq := models.Request{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    in.Description,
		Status:         RequestPending,
		UserID:         u.ID,
		OrganizationID: orgID,
		ProjectID:      utils.TrimPtr(in.ProjectID),
		CreatedAt:      s.now(),
	}
	if err := s.Requests.Create(ctx, rq); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return out, domain.ValidationError{Field: "projectId", Msg: "project not found", Err: domain.ErrNotFound}
		}
		return out, classify(s.RequestID, "request", "create_request", err)
	}

	utils.LogEvent(s.RequestID, "request", "create_request", "request_id="+rq.ID)
	out.Data = &models.RequestWithRefs{
		Request: rq,
		User:    &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email},
	}
	out.Message = "request created"
	return out, nil
}
