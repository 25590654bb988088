// Package auth is the authentication and authorization core: registration,
// login, logout, role assignment and resolution of bearer tokens into users.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inventory-service/internal/metrics"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/queue"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/utils"
)

// UserStore is the subset of user persistence the core needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateRole(ctx context.Context, id uint64, role model.Role) error
}

// EventPublisher receives audit events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.AuthEvent) error { return nil }

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Service composes the credential hasher, the token issuer and the access
// policy. It holds no per-request state and is safe for concurrent use.
type Service struct {
	users  UserStore
	tokens *Tokens
	params utils.PasswordParams
	events EventPublisher
	log    logrus.FieldLogger
	now    func() time.Time

	// verified against when the email is unknown so both login failures cost the same
	dummySalt, dummyHash string
}

// Option customizes a Service.
type Option func(*Service)

// WithPasswordParams overrides the argon2id cost settings.
func WithPasswordParams(p utils.PasswordParams) Option {
	return func(s *Service) { s.params = p }
}

// WithEvents sets the audit event publisher.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires the core over the given stores.
func NewService(users UserStore, tokens TokenStore, opts ...Option) (*Service, error) {
	s := &Service{
		users:  users,
		tokens: NewTokens(tokens),
		params: utils.DefaultPasswordParams,
		events: nopPublisher{},
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	salt, hash, err := utils.HashPassword("not-a-real-password", s.params)
	if err != nil {
		return nil, err
	}
	s.dummySalt, s.dummyHash = salt, hash
	return s, nil
}

// Tokens exposes the token issuer/validator.
func (s *Service) Tokens() *Tokens { return s.tokens }

// Register creates a user with role "user".
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateRegister(in); err != nil {
		return model.User{}, err
	}

	salt, hash, err := utils.HashPassword(in.Password, s.params)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordSalt: salt,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		outcome := "storage_error"
		if errors.Is(err, repository.ErrEmailExists) {
			outcome = "duplicate_email"
		}
		metrics.AuthAttempts.WithLabelValues("register", outcome).Inc()
		s.log.WithError(err).Warn("register: create user failed")
		return model.User{}, storageErr(err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	s.log.WithField("user_id", u.ID).Info("user registered")
	s.publish(ctx, queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email, Role: string(u.Role)})
	return u, nil
}

// Login checks the credentials and issues a new bearer token, which
// replaces any token the user held before.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.VerifyPassword(password, s.dummySalt, s.dummyHash)
			metrics.AuthAttempts.WithLabelValues("login", "invalid_credentials").Inc()
			s.log.Debug("login: unknown email")
			return model.User{}, "", ErrInvalidCredentials
		}
		metrics.AuthAttempts.WithLabelValues("login", "storage_error").Inc()
		return model.User{}, "", storageErr(err)
	}
	if !utils.VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		metrics.AuthAttempts.WithLabelValues("login", "invalid_credentials").Inc()
		s.log.WithField("user_id", u.ID).Debug("login: password mismatch")
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, &u)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "storage_error").Inc()
		return model.User{}, "", err
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	s.log.WithField("user_id", u.ID).Info("user logged in")
	s.publish(ctx, queue.AuthEvent{Type: queue.EventUserLoggedIn, UserID: u.ID, Role: string(u.Role)})
	return u, token, nil
}

// AssignRole lets a super_admin change the role of targetID.
func (s *Service) AssignRole(ctx context.Context, actingID, targetID uint64, newRole string) error {
	actor, err := s.users.GetByID(ctx, actingID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthAttempts.WithLabelValues("assign_role", "forbidden").Inc()
			return ErrForbidden
		}
		return storageErr(err)
	}
	if !Authorize(actor, RoleManagers...) {
		metrics.AuthAttempts.WithLabelValues("assign_role", "forbidden").Inc()
		s.log.WithFields(logrus.Fields{"actor_id": actor.ID, "actor_role": actor.Role}).Warn("assign role: forbidden")
		return ErrForbidden
	}
	role, err := ParseRole(newRole)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("assign_role", "invalid_role").Inc()
		return err
	}
	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return storageErr(err)
	}

	metrics.AuthAttempts.WithLabelValues("assign_role", "success").Inc()
	s.log.WithFields(logrus.Fields{"actor_id": actor.ID, "user_id": targetID, "role": role}).Info("role assigned")
	s.publish(ctx, queue.AuthEvent{Type: queue.EventUserRoleAssigned, UserID: targetID, ActorID: actor.ID, Role: string(role)})
	return nil
}

// Logout invalidates token.
func (s *Service) Logout(ctx context.Context, token string) error {
	u, err := s.tokens.Revoke(ctx, token)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", u.ID).Info("user logged out")
	s.publish(ctx, queue.AuthEvent{Type: queue.EventUserLoggedOut, UserID: u.ID})
	return nil
}

// AuthenticateRequest resolves an Authorization header value into a user.
func (s *Service) AuthenticateRequest(ctx context.Context, header string) (model.User, error) {
	return s.tokens.AuthenticateRequest(ctx, header)
}

func (s *Service) publish(ctx context.Context, ev queue.AuthEvent) {
	ev.OccurredAt = s.now().UTC().Format(time.RFC3339)
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("event", ev.Type).Warn("publish auth event failed")
	}
}

func validateRegister(in RegisterInput) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", in.Username},
		{"email", in.Email},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"password", in.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
