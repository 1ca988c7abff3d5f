package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	accounts "well-analysis/internal/accounts/domain"
	"well-analysis/internal/auth"
)

// DefaultTokenTTL is the lifetime of issued access tokens.
const DefaultTokenTTL = 24 * time.Hour

// Service registers users and issues tokens.
type Service struct {
	repo       accounts.Repository
	secret     []byte
	ttl        time.Duration
	allowAdmin bool
	logger     logrus.FieldLogger
	now        func() time.Time
	newID      func() string
}

// Option configures the service.
type Option func(*Service)

// WithTokenTTL overrides the token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithAdminRegistration lets Register create admin accounts.
func WithAdminRegistration(allow bool) Option {
	return func(s *Service) {
		s.allowAdmin = allow
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides user id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs an account service.
func NewService(repo accounts.Repository, secret []byte, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("accounts service: nil repo")
	}
	if len(secret) == 0 {
		return nil, errors.New("accounts service: empty jwt secret")
	}
	s := &Service{
		repo:   repo,
		secret: secret,
		ttl:    DefaultTokenTTL,
		logger: logrus.StandardLogger(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterInput is a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. The role defaults to student.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*accounts.User, error) {
	role := auth.RoleStudent
	if in.Role != "" {
		parsed, ok := auth.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", accounts.ErrInvalidUser, in.Role)
		}
		role = parsed
	}
	if role == auth.RoleAdmin && !s.allowAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", accounts.ErrInvalidUser)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := accounts.User{
		ID:           s.newID(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return &user, nil
}

// Session is a successful login.
type Session struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *accounts.User `json:"user"`
}

// Login authenticates by username or email and issues a token.
func (s *Service) Login(ctx context.Context, login, password string) (*Session, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, accounts.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, accounts.ErrInvalidCredentials
	}
	now := s.now()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	token, expires, err := auth.IssueJWT(s.secret, user.ID, user.Username, user.Role, s.ttl, now)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, ExpiresAt: expires, User: user}, nil
}

// Profile loads the account of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*accounts.User, error) {
	return s.repo.Get(ctx, userID)
}

// ResolveIdentity returns the stored username and role of userID.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (string, auth.Role, error) {
	user, err := s.repo.Get(ctx, userID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return "", "", auth.ErrUnauthorized
	}
	if err != nil {
		return "", "", err
	}
	return user.Username, user.Role, nil
}

// ProfileInput changes the email, the password, or both.
type ProfileInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateProfile applies a profile change.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*accounts.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]accounts.User, error) {
	return s.repo.List(ctx)
}
