// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, profile updates, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/dbx"
	"github.com/ashishkaushik/leazzy/internal/server/auth"
	"github.com/ashishkaushik/leazzy/internal/server/config"
	"github.com/ashishkaushik/leazzy/internal/server/models"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfilePatch is a partial update of the mutable profile fields.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name      *string
	Phone     *string
	AvatarURL *string
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const minPasswordLength = 8

// UserService provides authentication-related operations:
// - Register: create accounts and mint initial tokens
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	secretKey                    string
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		secretKey:                    cfg.SecretKey,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// withTx runs fn transactionally. Tests run without a database handle; the
// in-memory repository manager ignores it.
func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Register creates a new account and returns it with an initial token pair.
// Taken emails map to common.ErrorAlreadyExists, malformed input to
// common.ErrorValidation.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	if !emailPattern.MatchString(email) {
		return nil, nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, common.ErrorAlreadyExists
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies the credentials and, on success, returns the account and a
// new token pair. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield common.ErrTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrTokenExpired
	}

	var pair *TokenPair
	if err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
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

// Logout revokes every refresh token the user holds. The access token stays
// valid until it expires.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, userID)
}

// GetUser returns the account for the given id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UpdateProfile patches the mutable profile fields and returns the updated
// account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		if len(*patch.Phone) > 0 && len(*patch.Phone) < 10 {
			return nil, fmt.Errorf("%w: phone number is too short", common.ErrorValidation)
		}
		user.Phone = *patch.Phone
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateTokenPair mints an access token and stores a new refresh token via
// the given database handle.
func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(s.secretKey, userID, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, &models.RefreshToken{
		ID:        refreshToken,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.refreshTokenValidityDuration),
	})
	if err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
