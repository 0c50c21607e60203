package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medirural/internal/auth"
	"medirural/internal/domain"
	"medirural/internal/repository"
)

// AccountService регистрация, вход, профиль и модерация рецептов
type AccountService struct {
	users    repository.UserRepository
	hasher   auth.Hasher
	tokens   *auth.TokenManager
	logger   *logrus.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewAccountService(users repository.UserRepository, hasher auth.Hasher, tokens *auth.TokenManager, logger *logrus.Logger) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Phone    string         `json:"phone" validate:"required"`
	Address  domain.Address `json:"address"`
	Role     domain.Role    `json:"role"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	verr := &ValidationError{}
	if err := s.validate.Struct(in); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			for _, fe := range errs {
				verr.add(fe.Field(), describeTag(fe))
			}
		}
	}
	if in.Role == "" {
		in.Role = domain.RoleCustomer
	}
	switch in.Role {
	case domain.RoleCustomer:
	case domain.RoleSupplier:
		if len(in.Address.Pincode) != 6 || !isDigits(in.Address.Pincode) {
			verr.add("address.pincode", "suppliers must register a 6 digit service pincode")
		}
	default:
		verr.add("role", "must be customer or supplier")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  hash,
		Phone:         in.Phone,
		Address:       in.Address,
		Role:          in.Role,
		Prescriptions: []domain.Prescription{},
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Reason: "user already exists, please login instead"}
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("User registered")
	return &u, nil
}

// Login проверяет пароль и выпускает токен; неверный email и пароль неразличимы
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, &AuthenticationError{}
		}
		return "", nil, err
	}
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return "", nil, &AuthenticationError{}
	}
	token, err := s.tokens.Issue(*u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AccountService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "user"}
		}
		return nil, err
	}
	return u, nil
}

type ProfileUpdate struct {
	Name                    *string
	Phone                   *string
	Address                 *domain.Address
	SubscriptionPreferences *domain.SubscriptionPreferences
}

func (s *AccountService) UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			verr.add("name", "is required")
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		if strings.TrimSpace(*in.Phone) == "" {
			verr.add("phone", "is required")
		}
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.SubscriptionPreferences != nil {
		u.SubscriptionPreferences = *in.SubscriptionPreferences
	}
	if u.Role == domain.RoleSupplier && (len(u.Address.Pincode) != 6 || !isDigits(u.Address.Pincode)) {
		verr.add("address.pincode", "suppliers must keep a 6 digit service pincode")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin создаёт администратора из конфигурации, если его ещё нет
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password, name, phone string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fieldError("email", "admin email and password must be configured")
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.WithField("email", email).Warn("Configured admin email belongs to a non-admin account")
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if name == "" {
		name = "Administrator"
	}
	u := domain.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Phone:         phone,
		Role:          domain.RoleAdmin,
		Prescriptions: []domain.Prescription{},
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.logger.WithField("user_id", u.ID).Info("Admin account bootstrapped")
	return &u, nil
}
