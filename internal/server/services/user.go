package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/auth"
	"github.com/messagely/messagely/internal/server/authz"
	"github.com/messagely/messagely/internal/server/config"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/repomanager"
)

// UserService provides credential-related operations:
// - Register: create users and mint their first token
// - Login: verify credentials and mint tokens
// - Profile / ListProfiles: guarded profile reads
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	guard         *authz.Guard
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
	storeTimeout  time.Duration
}

// RegisterParams carries the fields required to create a user. All fields
// are mandatory.
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, g *authz.Guard, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		guard:         g,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
		storeTimeout:  cfg.StoreTimeout,
	}
}

// Register creates a new user, records the first login, and issues a token.
// A taken username yields common.ErrorDuplicateUsername; empty fields yield
// common.ErrorInvalidInput.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, string, error) {
	if p.Username == "" || p.Password == "" || p.FirstName == "" || p.LastName == "" || p.Phone == "" {
		return nil, "", fmt.Errorf("all fields are required: %w", common.ErrorInvalidInput)
	}

	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     p.Username,
		PasswordHash: hash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
	}

	repo := s.repomanager.Users(s.db)

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	user, err = repo.Create(sctx, user)
	if err != nil {
		return nil, "", mapStoreErr(err)
	}

	lastLogin, err := s.touchLogin(ctx, p.Username)
	if err != nil {
		return nil, "", err
	}
	user.LastLoginAt = &lastLogin

	token, err := auth.GenerateToken(p.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login verifies the username/password pair and, on success, records the
// login time and returns a fresh token. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("username and password are required: %w", common.ErrorInvalidInput)
	}

	repo := s.repomanager.Users(s.db)

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	user, err := repo.GetByUsername(sctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a hash comparison so unknown users cost the same
			auth.DummyCheck(password)
			return nil, "", common.ErrorUnauthenticated
		}
		return nil, "", mapStoreErr(err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorUnauthenticated) {
			return nil, "", common.ErrorUnauthenticated
		}
		return nil, "", common.ErrorInternal
	}

	lastLogin, err := s.touchLogin(ctx, username)
	if err != nil {
		return nil, "", err
	}
	user.LastLoginAt = &lastLogin

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Profile returns the profile of the requested user, subject to the guard's
// profile policy. The password hash never leaves this layer.
func (s *UserService) Profile(ctx context.Context, caller, username string) (*models.User, error) {
	if err := s.guard.CanViewProfile(caller, username); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	user, err := repo.GetByUsername(sctx, username)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	user.PasswordHash = ""
	return user, nil
}

// ListProfiles returns profile summaries for all users.
func (s *UserService) ListProfiles(ctx context.Context, caller string) ([]models.Profile, error) {
	if err := s.guard.CanListProfiles(caller); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	profiles, err := repo.ListAll(sctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return profiles, nil
}

func (s *UserService) touchLogin(ctx context.Context, username string) (time.Time, error) {
	repo := s.repomanager.Users(s.db)

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	lastLogin, err := repo.TouchLogin(sctx, username)
	if err != nil {
		return time.Time{}, mapStoreErr(err)
	}
	return lastLogin, nil
}
