// Package services implements the server's application logic on top of the
// repository layer: accounts and tokens, draft lifecycle, sealing, export.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/auth"
	"github.com/radarnarcisista/cartaselo/internal/server/config"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// hashPassword derives an argon2id digest from password and salt.
// Parameters follow the RFC 9106 low-memory recommendation.
func hashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func (s *UserService) Register(ctx context.Context, username string, password []byte) (*models.User, error) {

	salt := common.GenerateRandByteArray(32)

	user := &models.User{
		UserName:     username,
		Salt:         salt,
		PasswordHash: hashPassword(password, salt),
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) checkPassword(user *models.User, password []byte) bool {
	candidate := hashPassword(password, user.Salt)
	return subtle.ConstantTimeCompare(user.PasswordHash, candidate) == 1
}

func (s *UserService) Login(ctx context.Context, userName string, password []byte) (*TokenPair, error) {

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn a derivation anyway so a missing user is not
			// distinguishable by timing
			hashPassword(password, []byte("0123456789abcdef"))
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !s.checkPassword(user, password) {
		return nil, common.ErrUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID)
}

func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.generateTokenPairTx(ctx, tx, token.UserID)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	return s.generateTokenPairTx(ctx, s.db, userID)
}

func (s *UserService) generateTokenPairTx(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
