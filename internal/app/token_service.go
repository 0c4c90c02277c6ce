package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artflight/internal/cache"
	"artflight/internal/model"
	"artflight/internal/pkg/jwtutil"
	"artflight/internal/pkg/resettoken"
	"artflight/internal/repository"
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ResetSecret keys password-reset HMACs.
	ResetSecret string
	ResetTTL    time.Duration
}

type TokenService struct {
	users     *repository.UserRepository
	blacklist *cache.TokenBlacklist
	resets    *resettoken.Generator
	cfg       TokenConfig
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewTokenService(users *repository.UserRepository, blacklist *cache.TokenBlacklist, cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 5 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &TokenService{
		users:     users,
		blacklist: blacklist,
		resets:    resettoken.NewGenerator(cfg.ResetSecret, cfg.ResetTTL),
		cfg:       cfg,
	}
}

// Issue returns a fresh access/refresh pair for user.
func (s *TokenService) Issue(user *model.User) (*TokenPair, error) {
	access, err := jwtutil.GenerateToken(s.cfg.Secret, s.cfg.AccessTTL, user.ID, jwtutil.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := jwtutil.GenerateToken(s.cfg.Secret, s.cfg.RefreshTTL, user.ID, jwtutil.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token. The refresh token is returned unchanged.
func (s *TokenService) Refresh(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.liveRefreshClaims(ctx, refresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	access, err := jwtutil.GenerateToken(s.cfg.Secret, s.cfg.AccessTTL, user.ID, jwtutil.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Blacklist revokes a refresh token until its natural expiry.
func (s *TokenService) Blacklist(ctx context.Context, refresh string) error {
	claims, err := s.liveRefreshClaims(ctx, refresh)
	if err != nil {
		return err
	}
	return s.blacklist.Add(ctx, claims.ID, claims.Remaining(time.Now()))
}

// Authenticate resolves an access token to an active user.
func (s *TokenService) Authenticate(ctx context.Context, access string) (*model.User, error) {
	claims, err := jwtutil.ParseToken(s.cfg.Secret, access, jwtutil.TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *TokenService) MakeResetToken(user *model.User) string {
	return s.resets.Make(resetSubject(user))
}

func (s *TokenService) CheckResetToken(user *model.User, token string) bool {
	return s.resets.Check(resetSubject(user), token)
}

func (s *TokenService) liveRefreshClaims(ctx context.Context, refresh string) (*jwtutil.Claims, error) {
	claims, err := jwtutil.ParseToken(s.cfg.Secret, refresh, jwtutil.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, jwtutil.ErrInvalidToken) || errors.Is(err, jwtutil.ErrWrongTokenType) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("parse refresh token failed: %w", err)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func resetSubject(user *model.User) resettoken.Subject {
	return resettoken.Subject{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		LastLogin:    user.LastLogin,
	}
}
