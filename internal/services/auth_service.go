package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"favorx_backend/internal/auth"
	"favorx_backend/internal/config"
	"favorx_backend/internal/email"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const refreshTokenTTL = 30 * 24 * time.Hour

var (
	ErrInvalidCredentials = apperrors.NewUnauthorizedError("Invalid email or password")
	ErrAccountSuspended   = apperrors.NewForbiddenError("Account is suspended")
	ErrAccountBanned      = apperrors.NewForbiddenError("Account is banned")
	ErrRefreshInvalid     = apperrors.NewUnauthorizedError("Refresh token is invalid or expired")
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error)
	Logout(req *dto.RefreshRequest) error
	VerifyEmail(token string) error
	ResendVerification(ctx context.Context, userID string) error
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		now:              time.Now,
	}
}

// ---------------- Registration / login ----------------

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrAlreadyExists(nil, "auth", "Email is already registered")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperrors.ErrAlreadyExists(nil, "auth", "Username is taken")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      hash,
		Role:              models.UserRoleUser,
		VerificationToken: uuid.NewString(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.profileRepo.Create(&models.Profile{UserID: user.ID, FullName: req.FullName}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if err := s.emailProvider.SendAccountVerification(user.Email, user.Username, user.VerificationToken); err != nil {
		logger.CtxWithError(ctx, "verification email failed", err, "user_id", user.ID)
	}

	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	if user.IsSuspended && user.SuspensionEnd != nil && user.SuspensionEnd.After(s.now()) {
		return nil, ErrAccountSuspended
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return s.issueTokens(user)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// fresh pair is issued.
func (s *authService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(req.RefreshToken)
	if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}
	if stored.ExpiresAt.Before(s.now()) {
		_ = s.refreshTokenRepo.Delete(stored.Token)
		return nil, ErrRefreshInvalid
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	if err := s.refreshTokenRepo.Delete(stored.Token); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(req *dto.RefreshRequest) error {
	return s.refreshTokenRepo.Delete(req.RefreshToken)
}

// ---------------- Account maintenance ----------------

func (s *authService) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewBadRequestError("Verification token is invalid")
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerified(user.ID, true); err != nil {
		return fmt.Errorf("mark user %s verified: %w", user.ID, err)
	}
	return s.userRepo.SetVerificationToken(user.ID, "")
}

// ResendVerification rotates the verification token and sends a fresh mail.
// Rotation invalidates any link from an earlier registration attempt.
func (s *authService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperrors.ErrInvalidOperation("auth", "Email is already verified")
	}

	token := uuid.NewString()
	if err := s.userRepo.SetVerificationToken(user.ID, token); err != nil {
		return fmt.Errorf("rotate verification token for user %s: %w", user.ID, err)
	}
	if err := s.emailProvider.SendAccountVerification(user.Email, user.Username, token); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	logger.CtxInfo(ctx, "verification email resent", "user_id", user.ID)
	return nil
}

func (s *authService) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.NewUnauthorizedError("Current password is incorrect")
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("update password for user %s: %w", userID, err)
	}

	// Password changes revoke every open session.
	return s.refreshTokenRepo.DeleteByUser(userID)
}

// ---------------- Helpers ----------------

func (s *authService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	ttl := time.Duration(config.GetConfig().JWT.TTL) * time.Minute
	return &dto.AuthResponse{
		Token:        accessToken,
		RefreshToken: refresh.Token,
		ExpiresAt:    s.now().Add(ttl),
		User:         userToResponse(user),
	}, nil
}

func userToResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(user.Role),
		KarmaScore: user.KarmaScore,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
