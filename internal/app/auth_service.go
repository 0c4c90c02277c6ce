package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"artflight/internal/metrics"
	"artflight/internal/model"
	"artflight/internal/repository"
	"artflight/internal/validation"
)

const resetMailSubject = "Password Reset Request"

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// MailPublisher queues outgoing mail.
type MailPublisher interface {
	Publish(ctx context.Context, msg model.MailMessage) error
}

type AuthService struct {
	userRepo    *repository.UserRepository
	tokens      *TokenService
	mail        MailPublisher
	frontendURL string
	log         *slog.Logger
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Tokens *TokenPair
	User   *model.User
}

func NewAuthService(userRepo *repository.UserRepository, tokens *TokenService, mail MailPublisher, frontendURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email, err := validation.NormalizeEmail(input.Email)
	if err != nil {
		return nil, invalid("email", err.Error())
	}

	username := strings.TrimSpace(input.Username)
	explicit := username != ""
	if explicit {
		if err := validation.ValidateUsername(username); err != nil {
			return nil, invalid("username", err.Error())
		}
	} else {
		username = validation.UsernameFromEmail(email)
	}
	if err := validation.ValidatePassword(input.Password, validation.EmailLocalPart(email), username); err != nil {
		return nil, invalid("password", err.Error())
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUnique(ctx, user, explicit); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameExists
		default:
			return nil, err
		}
	}

	metrics.AuthEvents.WithLabelValues("register").Inc()
	return user, nil
}

// Login checks the password before the active flag, so a disabled account is
// only revealed to someone who knows its password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email, err := validation.NormalizeEmail(input.Email)
	if err != nil {
		return nil, invalid("email", err.Error())
	}
	if input.Password == "" {
		return nil, invalid("password", "this field may not be blank")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.AuthEvents.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.AuthEvents.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredential
	}
	if !user.IsActive {
		metrics.AuthEvents.WithLabelValues("login_disabled").Inc()
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEvents.WithLabelValues("login_ok").Inc()
	return &LoginResult{Tokens: tokens, User: user}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refresh string) (*TokenPair, error) {
	pair, err := s.tokens.Refresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	metrics.AuthEvents.WithLabelValues("refresh").Inc()
	return pair, nil
}

func (s *AuthService) Blacklist(ctx context.Context, refresh string) error {
	if err := s.tokens.Blacklist(ctx, refresh); err != nil {
		return err
	}
	metrics.AuthEvents.WithLabelValues("blacklist").Inc()
	return nil
}

// ForgetPassword queues a reset link when the address belongs to a user.
// Every failure is logged and swallowed so callers cannot probe accounts.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) {
	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return
	}
	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		s.log.Error("forget password lookup failed", "error", err)
		return
	}
	if user == nil {
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s/%s", s.frontendURL, EncodeUID(user.ID), s.tokens.MakeResetToken(user))
	msg := model.MailMessage{
		To:      []string{user.Email},
		Subject: resetMailSubject,
		Body:    "Click the link to reset your password: " + link,
	}
	if err := s.mail.Publish(ctx, msg); err != nil {
		s.log.Error("publish reset mail failed", "error", err, "user_id", user.ID)
		return
	}
	metrics.AuthEvents.WithLabelValues("reset_requested").Inc()
}

func (s *AuthService) ResetPassword(ctx context.Context, uid, token, newPassword string) error {
	id, err := DecodeUID(uid)
	if err != nil {
		return ErrInvalidUID
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidUID
	}
	if !s.tokens.CheckResetToken(user, token) {
		return ErrInvalidResetToken
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	metrics.AuthEvents.WithLabelValues("reset_completed").Inc()
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, current, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrIncorrectPassword
	}
	return s.setPassword(ctx, user, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, user *model.User, password string) error {
	if err := validation.ValidatePassword(password, validation.EmailLocalPart(user.Email), user.Username); err != nil {
		return invalid("new_password", err.Error())
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

// EncodeUID renders a user id the way reset links carry it.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid uid %q", uid)
	}
	return uint(id), nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", invalid("password", "password must not exceed 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}
