// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, password changes and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/cryptox"
	"github.com/dmitrijs2005/wanderlust/internal/dbx"
	"github.com/dmitrijs2005/wanderlust/internal/server/attempts"
	"github.com/dmitrijs2005/wanderlust/internal/server/auth"
	"github.com/dmitrijs2005/wanderlust/internal/server/config"
	"github.com/dmitrijs2005/wanderlust/internal/server/localauth"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService provides account operations on top of the local
// authentication capability:
//   - Register: validate and create users
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - ChangePassword: replace the password and revoke all sessions
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	authOptions                  localauth.Options
}

// NewUserService constructs a UserService. tracker records failed logins and
// is only consulted when cfg.MaxLoginAttempts is positive; nil falls back to
// an in-process tracker. An unknown cfg.PasswordHasher is an error.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, tracker attempts.Tracker) (*UserService, error) {
	hasher, err := cryptox.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}

	opts := localauth.DefaultOptions()
	opts.Hasher = hasher
	opts.UsernameLowerCase = cfg.UsernameLowerCase
	if cfg.MaxLoginAttempts > 0 {
		opts.LimitAttempts = true
		opts.MaxAttempts = cfg.MaxLoginAttempts
		opts.Tracker = tracker
		if tracker == nil {
			opts.Tracker = attempts.NewMemory(0)
		}
	}

	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		authOptions:                  opts,
	}, nil
}

func (s *UserService) authenticator(db dbx.DBTX) *localauth.Authenticator[*models.User] {
	return localauth.New[*models.User](s.repomanager.Users(db), s.authOptions)
}

// Register creates a user after schema validation. Validation failures
// (common.ErrorValidation) and the localauth registration errors are
// returned as is.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	user := &models.User{
		Email:       email,
		Credentials: localauth.Credentials{Username: username},
	}

	u, err := s.authenticator(s.db).Register(ctx, user, password)
	if err != nil {
		if isClientAuthError(err) || errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and, on success, returns the user with a new
// TokenPair.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.authenticator(s.db).Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, localauth.ErrIncorrectUsername) {
			// keep unknown usernames as slow as wrong passwords
			s.authOptions.Hasher.Key([]byte(password), common.GenerateRandByteArray(s.authOptions.SaltLen))
		}
		if isClientAuthError(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// StartSession mints a TokenPair for a user that was just verified another
// way, such as a fresh registration.
func (s *UserService) StartSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Unknown tokens yield common.ErrorNotFound and
// expired ones common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes a refresh token. Unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// GetByID returns common.ErrorNotFound for unknown ids.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}

// ChangePassword checks oldPassword, stores newPassword and revokes every
// refresh token of the user in one transaction.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		if err := s.authenticator(tx).ChangePassword(ctx, user, oldPassword, newPassword); err != nil {
			return err
		}
		if _, err := s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}
		return nil
	})
}

// Unlock clears the failed login history of username on this server's
// tracker.
func (s *UserService) Unlock(ctx context.Context, username string) error {
	if err := s.authenticator(s.db).Unlock(ctx, username); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// --- helpers below ---

func isClientAuthError(err error) bool {
	return localauth.IsCredentialError(err) ||
		localauth.IsLockout(err) ||
		errors.Is(err, localauth.ErrMissingUsername) ||
		errors.Is(err, localauth.ErrMissingPassword) ||
		errors.Is(err, localauth.ErrUserExists)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, time.Now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
