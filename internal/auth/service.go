package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grambazaar/storefront-backend/internal/notifications"
	"github.com/grambazaar/storefront-backend/internal/users"
	pkgAuth "github.com/grambazaar/storefront-backend/pkg/auth"
	"github.com/grambazaar/storefront-backend/pkg/auth/reset"
	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "Invalid email or password"
	deactivatedMessage        = "Account is deactivated"
	welcomeSubject            = "Welcome to GramBazaar"
	resetSubject              = "Reset your GramBazaar password"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileUpdate) (*users.UserDTO, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ListUsers(ctx context.Context) (*UserList, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, id uuid.UUID, changes users.ProfileChanges) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	List(ctx context.Context) ([]models.User, error)
}

type resetTokens interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	ResetTokens resetTokens
	Hasher      *security.PasswordHasher
	Dispatcher  notifications.Dispatcher
	JWTConfig   config.JWTConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	users      userRepository
	resets     resetTokens
	hasher     *security.PasswordHasher
	dispatcher notifications.Dispatcher
	jwtCfg     config.JWTConfig
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ResetTokens == nil {
		return nil, fmt.Errorf("reset token store is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:      params.UserRepo,
		resets:     params.ResetTokens,
		hasher:     params.Hasher,
		dispatcher: params.Dispatcher,
		jwtCfg:     params.JWTConfig,
		logg:       logg,
		now:        now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name, email, and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "User already exists")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if stdErrors.Is(err, security.ErrPasswordTooShort) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "User already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "auth.user.registered")

	resp, err := s.issue(user, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notifications.Email(user.Email, welcomeSubject,
		fmt.Sprintf("Hi %s, your GramBazaar account is ready. Happy shopping!", user.Name)))
	return resp, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, deactivatedMessage)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "auth.user.logged_in")
	return s.issue(user, now)
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context) (*UserList, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return &UserList{Count: len(rows), Users: users.FromModels(rows)}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileUpdate) (*users.UserDTO, error) {
	var changes users.ProfileChanges
	if name := strings.TrimSpace(req.Name); name != "" {
		changes.Name = &name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		changes.Phone = &phone
	}
	if err := s.users.UpdateProfile(ctx, userID, changes); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return s.Profile(ctx, userID)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			// unknown addresses get the same response as known ones
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	token, err := s.resets.Issue(ctx, user.Email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}
	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "auth.password_reset.issued")
	s.notify(ctx, notifications.Email(user.Email, resetSubject,
		fmt.Sprintf("Use this code to reset your password: %s\nIt expires in %s.", token, reset.DefaultTTL)))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if len(req.Password) < security.MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, security.ErrPasswordTooShort.Error())
	}
	email, err := s.resets.Consume(ctx, req.Token)
	if err != nil {
		if stdErrors.Is(err, reset.ErrInvalidToken) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume reset token")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "auth.password_reset.completed")
	return nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) issue(user *models.User, now time.Time) (*AuthResponse, error) {
	token, err := pkgAuth.Issue(s.jwtCfg, now, pkgAuth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{Token: token, User: users.FromModel(user)}, nil
}

func (s *service) notify(ctx context.Context, msg notifications.Message) {
	if err := s.dispatcher.Enqueue(ctx, msg); err != nil {
		s.logg.Error(ctx, "auth.notification.not_enqueued", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
