package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-inventory/internal/converter"
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/domain/repository"
	"clinic-inventory/internal/session"
	"clinic-inventory/pkg/password"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
)

// WeakPasswordError carries the first failing strength-rule reason.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return "password too weak: " + e.Reason
}

type AuthUsecase interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, claims *session.Claims) error
	GetCurrentUser(ctx context.Context, userID uint) (*entity.User, error)
}

type authUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
	sessions *session.Service
}

func NewAuthUsecase(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository, sessions *session.Service) AuthUsecase {
	return &authUsecase{
		db:       db,
		log:      log,
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Signup registers a new staff account. Checks run in a fixed order: password
// confirmation, strength policy, username uniqueness, email uniqueness. The
// user row is only persisted once every check has passed.
func (u *authUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if ok, reason := password.ValidateStrength(req.Password); !ok {
		return nil, &WeakPasswordError{Reason: reason}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByUsername(tx, req.Username)
	if err != nil {
		u.log.Warnf("Failed to look up username: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	existing, err = u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to look up email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		// Two signups can race past the lookups; the unique indexes decide.
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameAlreadyExists
		}
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// Login verifies the credentials and establishes a session. A missing user
// and a wrong password both return ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := u.userRepo.FindByUsername(u.db.WithContext(ctx), req.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Check(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, sessionID, err := u.sessions.Create(ctx, user.ID)
	if err != nil {
		u.log.Warnf("Failed to create session: %+v", err)
		return nil, err
	}

	return &dto.SessionResponse{
		Token:     token,
		SessionID: sessionID,
		User:      converter.UserToResponse(user),
	}, nil
}

// Logout revokes the session server-side.
func (u *authUsecase) Logout(ctx context.Context, claims *session.Claims) error {
	if err := u.sessions.Revoke(ctx, claims); err != nil {
		u.log.Warnf("Failed to revoke session: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// isDuplicateKeyError checks for a PostgreSQL unique violation (23505) whose
// constraint name contains constraintName.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
