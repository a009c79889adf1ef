// Package service implements account management: registration, login,
// password reset and role seeding.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"smarttalent/internal/auth/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
	"smarttalent/pkg/requestcontext"
)

const resetTokenTTL = time.Hour

// Store persists users and roles.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	AssignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, username string, roles []string) (string, error)
}

// Notifier receives account events. Delivery is best effort.
type Notifier interface {
	PasswordReset(ctx context.Context, email, username, token string) error
}

// Service orchestrates account operations.
type Service struct {
	store    Store
	tokens   TokenIssuer
	txRunner tx.Runner
	notifier Notifier
	logger   *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTxRunner sets the transaction runner.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.txRunner = runner }
}

// WithNotifier sets the account event sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// New creates the auth service.
func New(store Store, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tokens:   tokens,
		txRunner: tx.NopRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Register creates an account with the default USER role.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.createUserWithRole(ctx, username, email, password, models.RoleUser, id.EntityID{})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// ProvisionEntityUser creates the account that accompanies a new entity,
// carrying the USER role and the owning entity id. Runs inside the caller's
// transaction so an entity and its account commit or roll back together.
func (s *Service) ProvisionEntityUser(ctx context.Context, entityID id.EntityID, username, email, initialPassword string) (*models.User, error) {
	return s.createUserWithRole(ctx, username, email, initialPassword, models.RoleUser, entityID)
}

// CreateAdmin creates an account carrying the ADMIN role. Used by the CLI.
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.createUserWithRole(ctx, username, email, password, models.RoleAdmin, id.EntityID{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) createUserWithRole(ctx context.Context, username, email, password, roleName string, entityID id.EntityID) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hashing password")
	}

	user, err := models.NewUser(username, email, string(hash), requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid user")
	}
	user.EntityID = entityID

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating user")
	}

	role, err := s.store.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolving role "+roleName)
	}
	if err := s.store.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "assigning role")
	}

	user.Roles = append(user.Roles, *role)
	return user, nil
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues an access token. Unknown emails,
// wrong passwords and deactivated accounts all fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "signing token")
	}

	s.log().InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// Profile returns the account behind the authenticated user id.
func (s *Service) Profile(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
	}
	return user, nil
}

// FindRecruiter resolves a user that carries the RECRUITER role. A missing
// user and a user without the role both answer not-found so assignment
// callers cannot probe which accounts exist.
func (s *Service) FindRecruiter(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "recruiter not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
	}
	if !user.Active || !user.HasRole(models.RoleRecruiter) {
		return nil, dErrors.New(dErrors.CodeNotFound, "recruiter not found")
	}
	return user, nil
}

// RequestPasswordReset arms a reset token and notifies the account. Unknown
// emails succeed silently so the endpoint cannot enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.log().InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
	}

	token, err := newResetToken()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "generating reset token")
	}

	now := requestcontext.Now(ctx)
	user.SetResetToken(token, now.Add(resetTokenTTL), now)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "saving reset token")
	}

	if s.notifier != nil {
		if err := s.notifier.PasswordReset(ctx, user.Email, user.Username, token); err != nil {
			s.log().WarnContext(ctx, "reset notification failed", "user_id", user.ID, "error", err)
		}
	}
	s.log().InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ValidateResetToken checks a reset token without consuming it, so clients
// can gate the new-password form.
func (s *Service) ValidateResetToken(ctx context.Context, token string) error {
	user, err := s.store.FindUserByResetToken(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeValidation, "reset token is invalid or expired")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
	}
	if !user.ResetTokenValid(token, requestcontext.Now(ctx)) {
		return dErrors.New(dErrors.CodeValidation, "reset token is invalid or expired")
	}
	return nil
}

// ResetPassword consumes a valid reset token and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	return s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.store.FindUserByResetToken(ctx, token)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "reset token is invalid or expired")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "loading user")
		}

		now := requestcontext.Now(ctx)
		if !user.ResetTokenValid(token, now) {
			return dErrors.New(dErrors.CodeValidation, "reset token is invalid or expired")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "hashing password")
		}
		user.ApplyPasswordReset(string(hash), now)
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "saving password")
		}

		s.log().InfoContext(ctx, "password reset completed", "user_id", user.ID)
		return nil
	})
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
