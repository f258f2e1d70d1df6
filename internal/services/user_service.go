package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/metrics"
	"projectdesk/internal/utils"
)

const (
	minPasswordLength = 6
	defaultUserRole   = "user"
)

type RegisterInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	Avatar         *string `json:"avatar"`
	OrganizationID *string `json:"organizationId"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

type UserService struct {
	Users     UserStore
	Guard     LoginGuard
	JWTSecret []byte
	TokenTTL  time.Duration
	Now       func() time.Time
	RequestID string
}

func (s UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s UserService) Register(ctx context.Context, in RegisterInput) (domain.Envelope[models.PublicUser], error) {
	var out domain.Envelope[models.PublicUser]
	name, err := utils.RequireText("name", in.Name)
	if err != nil {
		return out, err
	}
	email, err := utils.RequireEmail("email", in.Email)
	if err != nil {
		return out, err
	}
	if len(in.Password) < minPasswordLength {
		return out, domain.ValidationError{Field: "password", Msg: "must contain at least 6 characters"}
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = defaultUserRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return out, classify(s.RequestID, "user", "register", err)
	}

	now := s.now()
	u := models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		Avatar:         utils.TrimPtr(in.Avatar),
		OrganizationID: utils.TrimPtr(in.OrganizationID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return out, domain.ValidationError{Field: "email", Msg: "an account with this e-mail already exists", Err: domain.ErrDuplicate}
		}
		return out, classify(s.RequestID, "user", "register", err)
	}

	utils.LogEvent(s.RequestID, "user", "register", "user_id="+u.ID)
	out.Data = u.ToPublic()
	out.Message = "user registered"
	return out, nil
}

// Login verifies credentials and issues an access token.
func (s UserService) Login(ctx context.Context, email, password string) (domain.Envelope[LoginResult], error) {
	var out domain.Envelope[LoginResult]
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return out, domain.Invalid("email and password are required")
	}

	guard := s.Guard
	guard.RequestID = s.RequestID
	if err := guard.Check(ctx, email); err != nil {
		metrics.IncrementLogin("locked")
		return out, err
	}

	u, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		guard.Fail(ctx, email)
		metrics.IncrementLogin("invalid")
		return out, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if err != nil {
		return out, classify(s.RequestID, "user", "login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		guard.Fail(ctx, email)
		metrics.IncrementLogin("invalid")
		return out, domain.UnauthorizedError{Msg: "invalid email or password"}
	}

	now := s.now()
	token, err := utils.IssueToken(s.JWTSecret, u.ID, u.Role, utils.Deref(u.OrganizationID, ""), s.TokenTTL, now)
	if err != nil {
		return out, classify(s.RequestID, "user", "login", err)
	}
	guard.Reset(ctx, email)
	metrics.IncrementLogin("success")

	utils.LogEvent(s.RequestID, "user", "login", "user_id="+u.ID)
	out.Data = LoginResult{Token: token, ExpiresAt: now.Add(s.TokenTTL), User: u.ToPublic()}
	out.Message = "login successful"
	return out, nil
}

func (s UserService) GetUsersByOrganization(ctx context.Context, orgID string) (domain.Envelope[[]models.PublicUser], error) {
	var out domain.Envelope[[]models.PublicUser]
	orgID, err := utils.RequireID("organizationId", orgID)
	if err != nil {
		return out, err
	}
	users, err := s.Users.ListByOrganization(ctx, orgID)
	if err != nil {
		return out, classify(s.RequestID, "user", "get_users_by_organization", err)
	}
	if users == nil {
		users = []models.PublicUser{}
	}
	out.Data = users
	out.Message = "organization users retrieved"
	return out, nil
}
