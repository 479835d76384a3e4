package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrInvalidRole        = apperr.New(apperr.InvalidInput, "INVALID_ROLE", "role must be STARTUP or INVESTOR")
	ErrInvalidEmail       = apperr.New(apperr.InvalidInput, "INVALID_EMAIL", "invalid email address")
	ErrWeakPassword       = apperr.New(apperr.InvalidInput, "WEAK_PASSWORD", "password must be at least 8 characters")
	ErrEmailTaken         = apperr.New(apperr.Conflict, "EMAIL_TAKEN", "user exists with that email")
)

const minPasswordLength = 8

// TokenIssuer signs access tokens for a logged-in user.
type TokenIssuer interface {
	Issue(actor policy.Actor) (string, time.Time, error)
}

// AccountDeleter removes a user together with everything that depends on it.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, userID int64) error
}

type UserService interface {
	Register(ctx context.Context, fullName, email, password string, role policy.Role) (User, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, page, limit int) ([]User, int64, error)
	UpdateUser(ctx context.Context, actor policy.Actor, id int64, in UpdateUserInput) (User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, id int64) error
	MarkVerified(ctx context.Context, email string) error
}

type userService struct {
	repo    UserRepository
	tokens  TokenIssuer
	deleter AccountDeleter
}

func NewUserService(repo UserRepository, tokens TokenIssuer, deleter AccountDeleter) UserService {
	return &userService{repo: repo, tokens: tokens, deleter: deleter}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *userService) Register(ctx context.Context, fullName, email, password string, role policy.Role) (User, error) {
	if role != policy.RoleStartup && role != policy.RoleInvestor {
		return User{}, ErrInvalidRole
	}
	email = normalizeEmail(email)
	if !validEmail(email) {
		return User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return User{}, apperr.New(apperr.InvalidInput, "FULL_NAME_REQUIRED", "full name is required")
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.CreateUser(ctx, User{
		UUID:     uuid.NewString(),
		Email:    email,
		FullName: fullName,
		Role:     role,
	}, string(hashBytes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	id, hash, err := s.repo.GetUserAuthByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return LoginResult{}, err
	}

	token, expiresAt, err := s.tokens.Issue(u.Actor())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetUserByEmail(ctx, normalizeEmail(email))
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListUsers(ctx, limit, offset)
}

func (s *userService) UpdateUser(ctx context.Context, actor policy.Actor, id int64, in UpdateUserInput) (User, error) {
	if err := policy.AuthorizeOwnProfileAccess(actor, id); err != nil {
		return User{}, err
	}

	current, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		current.FullName = name
	}
	if in.Email != "" {
		email := normalizeEmail(in.Email)
		if !validEmail(email) {
			return User{}, ErrInvalidEmail
		}
		current.Email = email
	}
	if in.Role != "" && in.Role != current.Role {
		if err := policy.AuthorizeAdmin(actor); err != nil {
			return User{}, err
		}
		role, ok := policy.ParseRole(string(in.Role))
		if !ok {
			return User{}, ErrInvalidRole
		}
		current.Role = role
	}

	u, err := s.repo.UpdateUser(ctx, current)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.AuthorizeOwnProfileAccess(actor, id); err != nil {
		return err
	}
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.deleter.DeleteAccount(ctx, id)
}

func (s *userService) MarkVerified(ctx context.Context, email string) error {
	return s.repo.UpdateVerifiedAtByEmail(ctx, normalizeEmail(email), time.Now())
}
