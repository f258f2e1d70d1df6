package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"projectdesk/internal/domain"
	"projectdesk/internal/domain/models"
	"projectdesk/internal/utils"
)

var testSecret = []byte("test-secret")

func newGuard(t *testing.T, max int) (LoginGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return LoginGuard{Client: client, MaxAttempts: max, Window: 15 * time.Minute}, mr
}

func seededUser(t *testing.T, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.User{
		ID:             "u1",
		Name:           "Ada",
		Email:          "ada@example.com",
		PasswordHash:   string(hash),
		Role:           "admin",
		OrganizationID: strPtr("org1"),
	}
}

func userService(users *fakeUsers, guard LoginGuard) UserService {
	return UserService{
		Users:     users,
		Guard:     guard,
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Now:       func() time.Time { return fixedNow },
	}
}

func TestLoginGuard_LocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	guard, mr := newGuard(t, 3)

	for i := 0; i < 2; i++ {
		guard.Fail(ctx, "Ada@Example.com")
		require.NoError(t, guard.Check(ctx, "ada@example.com"))
	}
	guard.Fail(ctx, "ada@example.com")

	err := guard.Check(ctx, "ada@example.com")
	require.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	// window expiry unlocks
	mr.FastForward(16 * time.Minute)
	assert.NoError(t, guard.Check(ctx, "ada@example.com"))
}

func TestLoginGuard_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	guard, mr := newGuard(t, 2)
	guard.Fail(ctx, "ada@example.com")
	guard.Fail(ctx, "ada@example.com")
	require.Error(t, guard.Check(ctx, "ada@example.com"))

	guard.Reset(ctx, "ada@example.com")
	assert.NoError(t, guard.Check(ctx, "ada@example.com"))
	assert.False(t, mr.Exists("login:failures:ada@example.com"))
}

func TestLoginGuard_CounterAlwaysExpires(t *testing.T) {
	ctx := context.Background()
	guard, mr := newGuard(t, 5)
	key := "login:failures:ada@example.com"

	// counter left behind without a TTL
	require.NoError(t, mr.Set(key, "1"))
	require.Zero(t, mr.TTL(key))

	guard.Fail(ctx, "ada@example.com")
	assert.Equal(t, 15*time.Minute, mr.TTL(key))

	// later failures keep the original window
	mr.FastForward(5 * time.Minute)
	guard.Fail(ctx, "ada@example.com")
	assert.Equal(t, 10*time.Minute, mr.TTL(key))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestLoginGuard_DisabledWithoutClient(t *testing.T) {
	guard := LoginGuard{MaxAttempts: 1}
	guard.Fail(context.Background(), "x@example.com")
	assert.NoError(t, guard.Check(context.Background(), "x@example.com"))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		svc := userService(newFakeUsers(), LoginGuard{})
		cases := []RegisterInput{
			{Email: "a@example.com", Password: "secret1"},
			{Name: "A", Email: "not-an-email", Password: "secret1"},
			{Name: "A", Email: "a@example.com", Password: "short"},
		}
		for _, in := range cases {
			_, err := svc.Register(ctx, in)
			assert.True(t, domain.IsValidation(err), "input %+v", in)
		}
	})

	t.Run("defaults role and hashes password", func(t *testing.T) {
		users := newFakeUsers()
		env, err := userService(users, LoginGuard{}).Register(ctx, RegisterInput{
			Name:     " Ada ",
			Email:    " ADA@example.com ",
			Password: "secret1",
		})
		require.NoError(t, err)
		require.Len(t, users.created, 1)
		created := users.created[0]
		assert.Equal(t, "user", created.Role)
		assert.Equal(t, "ada@example.com", created.Email)
		assert.NotEqual(t, "secret1", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))
		assert.Equal(t, "Ada", env.Data.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := newFakeUsers(seededUser(t, "secret1"))
		_, err := userService(users, LoginGuard{}).Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
		require.True(t, domain.IsValidation(err))
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("store failure", func(t *testing.T) {
		users := newFakeUsers()
		users.err = errors.New("table is read only")
		_, err := userService(users, LoginGuard{}).Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
		assert.True(t, domain.IsDatabase(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token with claims", func(t *testing.T) {
		users := newFakeUsers(seededUser(t, "secret1"))
		env, err := userService(users, LoginGuard{}).Login(ctx, "ADA@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(time.Hour), env.Data.ExpiresAt)

		// token is minted at fixedNow, so parse it with a clock inside its lifetime
		claims, err := utils.ParseTokenAt(testSecret, env.Data.Token, fixedNow.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "org1", claims.OrganizationID)
	})

	t.Run("bad password", func(t *testing.T) {
		users := newFakeUsers(seededUser(t, "secret1"))
		_, err := userService(users, LoginGuard{}).Login(ctx, "ada@example.com", "wrong")
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := userService(newFakeUsers(), LoginGuard{}).Login(ctx, "ghost@example.com", "secret1")
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("locks after repeated failures and resets on success", func(t *testing.T) {
		guard, _ := newGuard(t, 2)
		svc := userService(newFakeUsers(seededUser(t, "secret1")), guard)

		_, err := svc.Login(ctx, "ada@example.com", "wrong")
		require.True(t, domain.IsUnauthorized(err))
		_, err = svc.Login(ctx, "ada@example.com", "secret1")
		require.NoError(t, err, "one failure is below the limit")

		_, _ = svc.Login(ctx, "ada@example.com", "wrong")
		_, _ = svc.Login(ctx, "ada@example.com", "wrong")
		_, err = svc.Login(ctx, "ada@example.com", "secret1")
		require.True(t, domain.IsValidation(err))
		assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := userService(newFakeUsers(), LoginGuard{}).Login(ctx, "", "")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestGetUsersByOrganization(t *testing.T) {
	users := newFakeUsers(seededUser(t, "secret1"))
	svc := userService(users, LoginGuard{})

	env, err := svc.GetUsersByOrganization(context.Background(), "org1")
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "ada@example.com", env.Data[0].Email)

	env, err = svc.GetUsersByOrganization(context.Background(), "org-empty")
	require.NoError(t, err)
	assert.NotNil(t, env.Data)

	_, err = svc.GetUsersByOrganization(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}
