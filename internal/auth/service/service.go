package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"brewleaf/internal/auth/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/email"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/requestcontext"
)

// DefaultHashCost is the bcrypt work factor for stored passwords.
const DefaultHashCost = 12

type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, role requestcontext.Role) (string, time.Time, error)
}

type Service struct {
	users    UserStore
	tokens   TokenIssuer
	hashCost int
	logger   *slog.Logger
	// dummyHash is compared against when the email is unknown so a failed
	// login takes the same time either way.
	dummyHash []byte
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func New(users UserStore, tokens TokenIssuer, opts ...Option) (*Service, error) {
	s := &Service{
		users:    users,
		tokens:   tokens,
		hashCost: DefaultHashCost,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("brewleaf-dummy-password"), s.hashCost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

// Register creates a customer account and signs it in.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, requestcontext.RoleCustomer)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID.String(),
	)
	return s.issue(user)
}

// Login checks the password and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResult, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WarnContext(ctx, "failed login",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", user.ID.String(),
		)
		return nil, invalid
	}
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// EnsureUser creates the account unless the email is already registered.
// It is used by seeding and reports whether a user was created.
func (s *Service) EnsureUser(ctx context.Context, name, email, password string, role requestcontext.Role) (bool, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if _, err := s.createUser(ctx, name, email, password, role); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountCustomers is used by the admin dashboard.
func (s *Service) CountCustomers(ctx context.Context) (int, error) {
	n, err := s.users.CountByRole(ctx, string(requestcontext.RoleCustomer))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count customers")
	}
	return n, nil
}

func (s *Service) createUser(ctx context.Context, name, address, password string, role requestcontext.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "password cannot be used")
	}
	user := &models.User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        email.Normalize(address),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*models.TokenResult, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
