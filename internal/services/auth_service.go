package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
)

// AuthService handles signup, login and account recovery. Signup and both
// recovery flows are gated on email verification.
type AuthService struct {
	userRepo  repositories.UserRepository
	emailSvc  *EmailService
	mailer    Mailer
	jwtSecret []byte
	jwtExpiry time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, emailSvc *EmailService, mailer Mailer, jwtSecret string, jwtExpiry time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// Signup registers a user once their email has been verified.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := s.emailSvc.VerifyCode(ctx, req.Email, req.VerificationCode); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateUsername
	}

	used, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}
	if used {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Status:   models.UserActive,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("user signed up", zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a signed token. A missing user and a
// wrong password answer identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.LoginResponse{}, apperrors.ErrInvalidCredentials
		}
		return models.LoginResponse{}, apperrors.ErrInternal.Wrap(err)
	}

	if user.Status != models.UserActive {
		return models.LoginResponse{}, apperrors.ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.LoginResponse{}, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return models.LoginResponse{}, apperrors.ErrInternal.Wrap(err)
	}

	token, err := s.issueToken(user.Username)
	if err != nil {
		return models.LoginResponse{}, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return models.LoginResponse{Token: token, Username: user.Username}, nil
}

// FindUsername recovers a username by verified email, masked for display.
func (s *AuthService) FindUsername(ctx context.Context, req models.FindUsernameRequest) (models.FindUsernameResponse, error) {
	if err := s.emailSvc.VerifyCode(ctx, req.Email, req.VerificationCode); err != nil {
		return models.FindUsernameResponse{}, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.FindUsernameResponse{}, apperrors.ErrUserNotFound.WithMessage("no account registered with this email")
		}
		return models.FindUsernameResponse{}, apperrors.ErrInternal.Wrap(err)
	}

	return models.FindUsernameResponse{MaskedUsername: maskUsername(user.Username)}, nil
}

// ResetPassword replaces the password with a mailed temporary one, gated on
// email verification.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.emailSvc.VerifyCode(ctx, req.Email, req.VerificationCode); err != nil {
		return err
	}

	user, err := s.userRepo.GetByUsernameAndEmail(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound.WithMessage("no matching account found")
		}
		return apperrors.ErrInternal.Wrap(err)
	}

	temporary, err := generateTemporaryPassword()
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temporary), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	user.Password = string(hash)
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	if err := s.mailer.SendTemporaryPassword(ctx, req.Email, temporary); err != nil {
		s.logger.Error("temporary password mail failed", zap.String("email", req.Email), zap.Error(err))
		return apperrors.ErrEmailSendFailure.Wrap(err)
	}

	s.logger.Info("temporary password issued", zap.String("username", req.Username))
	return nil
}

// ParseToken validates a token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken.WithMessage("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrInvalidToken.Wrap(err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	claims := models.JwtCustomClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// maskUsername keeps the first characters visible and blanks the rest.
func maskUsername(username string) string {
	runes := []rune(username)
	visible := len(runes) / 2
	if visible < 1 {
		visible = 1
	}
	return string(runes[:visible]) + strings.Repeat("*", len(runes)-visible)
}

const (
	passwordUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower   = "abcdefghijkmnpqrstuvwxyz"
	passwordDigits  = "23456789"
	passwordSpecial = "!@#$%^&*"
)

// generateTemporaryPassword builds an 8-character password containing at
// least one character from each class, matching the signup rules.
func generateTemporaryPassword() (string, error) {
	classes := []string{passwordUpper, passwordLower, passwordDigits, passwordSpecial}
	all := passwordUpper + passwordLower + passwordDigits + passwordSpecial

	chars := make([]byte, 0, 8)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < 8 {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates so the class-ordered prefix is not predictable.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		chars[i], chars[j.Int64()] = chars[j.Int64()], chars[i]
	}
	return string(chars), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
