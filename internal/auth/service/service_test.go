package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/internal/auth/models"
	"smarttalent/internal/auth/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/requestcontext"
)

var frozen = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), frozen)
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(_ id.UserID, username string, _ []string) (string, error) {
	return "token-" + username, nil
}

type captureNotifier struct {
	email string
	token string
	calls int
}

func (n *captureNotifier) PasswordReset(_ context.Context, email, _, token string) error {
	n.email = email
	n.token = token
	n.calls++
	return nil
}

func newAuthFixture(t *testing.T) (*Service, *store.Memory, *captureNotifier) {
	t.Helper()
	mem := store.NewMemory()
	notifier := &captureNotifier{}
	svc := New(mem, stubTokens{}, WithNotifier(notifier))
	require.NoError(t, svc.SeedRoles(testCtx()))
	return svc, mem, notifier
}

func TestSeedRoles(t *testing.T) {
	svc, mem, _ := newAuthFixture(t)

	for _, name := range []string{models.RoleAdmin, models.RoleRecruiter, models.RoleUser} {
		role, err := mem.FindRoleByName(testCtx(), name)
		require.NoError(t, err, name)
		assert.False(t, role.ID.IsNil())
	}

	// Reseeding keeps existing roles.
	require.NoError(t, svc.SeedRoles(testCtx()))
	admin1, err := mem.FindRoleByName(testCtx(), models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.SeedRoles(testCtx()))
	admin2, err := mem.FindRoleByName(testCtx(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin1.ID, admin2.ID)
}

func TestRegister(t *testing.T) {
	t.Run("creates an account with the USER role", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		user, err := svc.Register(testCtx(), "jperez", "JPerez@Example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "jperez@example.com", user.Email, "emails normalize to lowercase")
		assert.True(t, user.HasRole(models.RoleUser))
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "plaintext never stored")
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "short")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "not-an-email", "hunter2hunter2")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)
		_, err = svc.Register(testCtx(), "other", "jperez@example.com", "hunter2hunter2")
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})
}

func TestProvisionEntityUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	entityID := id.NewEntityID()

	user, err := svc.ProvisionEntityUser(testCtx(), entityID, "ACME SAC", "cuentas@acme.pe", "20123456789")
	require.NoError(t, err)
	assert.Equal(t, entityID, user.EntityID)
	assert.True(t, user.HasRole(models.RoleUser))
}

func TestCreateAdmin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user, err := svc.CreateAdmin(testCtx(), "root", "root@smarttalent.pe", "correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, user.HasRole(models.RoleAdmin))
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)

		result, err := svc.Login(testCtx(), "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "token-jperez", result.Token)
		assert.Equal(t, "jperez", result.User.Username)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)

		_, err = svc.Login(testCtx(), "jperez@example.com", "wrongwrong")
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.Login(testCtx(), "nobody@example.com", "hunter2hunter2")
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	t.Run("deactivated account fails identically", func(t *testing.T) {
		svc, mem, _ := newAuthFixture(t)
		user, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)

		user.Active = false
		require.NoError(t, mem.UpdateUser(testCtx(), user))

		_, err = svc.Login(testCtx(), "jperez@example.com", "hunter2hunter2")
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})
}

func TestProfile(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
	require.NoError(t, err)

	profile, err := svc.Profile(testCtx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.True(t, profile.HasRole(models.RoleUser))

	_, err = svc.Profile(testCtx(), id.NewUserID())
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestFindRecruiter(t *testing.T) {
	svc, mem, _ := newAuthFixture(t)

	plain, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
	require.NoError(t, err)

	recruiter, err := svc.Register(testCtx(), "mlopez", "mlopez@smarttalent.pe", "hunter2hunter2")
	require.NoError(t, err)
	role, err := mem.FindRoleByName(testCtx(), models.RoleRecruiter)
	require.NoError(t, err)
	require.NoError(t, mem.AssignRole(testCtx(), recruiter.ID, role.ID))

	t.Run("resolves recruiters", func(t *testing.T) {
		found, err := svc.FindRecruiter(testCtx(), recruiter.ID)
		require.NoError(t, err)
		assert.Equal(t, "mlopez", found.Username)
	})

	t.Run("non-recruiter answers not found", func(t *testing.T) {
		_, err := svc.FindRecruiter(testCtx(), plain.ID)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("unknown user answers the same not found", func(t *testing.T) {
		_, err := svc.FindRecruiter(testCtx(), id.NewUserID())
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func TestPasswordResetFlow(t *testing.T) {
	t.Run("full round trip", func(t *testing.T) {
		svc, _, notifier := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)

		require.NoError(t, svc.RequestPasswordReset(testCtx(), "jperez@example.com"))
		require.Equal(t, 1, notifier.calls)
		require.NotEmpty(t, notifier.token)
		assert.Equal(t, "jperez@example.com", notifier.email)

		require.NoError(t, svc.ValidateResetToken(testCtx(), notifier.token))
		require.NoError(t, svc.ResetPassword(testCtx(), notifier.token, "new-password-123"))

		_, err = svc.Login(testCtx(), "jperez@example.com", "new-password-123")
		assert.NoError(t, err)
		_, err = svc.Login(testCtx(), "jperez@example.com", "hunter2hunter2")
		assert.Error(t, err, "old password no longer works")

		// The token is single use.
		err = svc.ValidateResetToken(testCtx(), notifier.token)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		svc, _, notifier := newAuthFixture(t)
		require.NoError(t, svc.RequestPasswordReset(testCtx(), "nobody@example.com"))
		assert.Zero(t, notifier.calls)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		svc, _, notifier := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.NoError(t, svc.RequestPasswordReset(testCtx(), "jperez@example.com"))

		afterExpiry := requestcontext.WithTime(context.Background(), frozen.Add(2*time.Hour))
		err = svc.ValidateResetToken(afterExpiry, notifier.token)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
		err = svc.ResetPassword(afterExpiry, notifier.token, "new-password-123")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("weak replacement password rejected", func(t *testing.T) {
		svc, _, notifier := newAuthFixture(t)
		_, err := svc.Register(testCtx(), "jperez", "jperez@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.NoError(t, svc.RequestPasswordReset(testCtx(), "jperez@example.com"))

		err = svc.ResetPassword(testCtx(), notifier.token, "short")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}
