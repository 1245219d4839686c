package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

var (
	ErrReservedUsername = errors.New("username is reserved")
	ErrInvalidUsername  = errors.New("username contains invalid characters")
	ErrNameInUse        = errors.New("username already in use")
	ErrEmailInUse       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidCode      = errors.New("confirmation code is invalid")
	ErrInvalidToken     = errors.New("invalid token")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Claims carried by access tokens. Role is the effective role: staff and
// superuser accounts are issued the admin role outright.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SignupCooldown throttles outgoing confirmation emails per address.
type SignupCooldown interface {
	Allow(ctx context.Context, email string) (bool, error)
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) error
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	signer         *CodeSigner
	mailer         mailer.Mailer
	cooldown       SignupCooldown
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	signer *CodeSigner,
	m mailer.Mailer,
	cooldown SignupCooldown,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		signer:         signer,
		mailer:         m,
		cooldown:       cooldown,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Signup resolves or registers the (username, email) pair and emails a
// confirmation code. An exact existing match is an idempotent resend;
// anything else goes through strict creation validation, so a username
// already taken under a different email is rejected there, never on the
// lookup path.
func (s *authService) Signup(ctx context.Context, username, email string) error {
	user, err := s.userRepo.FindByUsernameAndEmailIgnoreCase(ctx, username, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user, err = s.register(ctx, username, email)
		if err != nil {
			return err
		}
	}

	code := s.signer.MakeCode(user)

	allowed, err := s.cooldown.Allow(ctx, user.Email)
	if err != nil {
		// cooldown is advisory; a broken redis must not block signups
		s.logger.Warn("signup cooldown check failed", "error", err)
		allowed = true
	}
	if !allowed {
		s.logger.Info("confirmation email throttled", "username", user.Username)
		return nil
	}

	if err := s.mailer.SendConfirmationCode(user.Email, user.Username, code); err != nil {
		return err
	}
	s.logger.Info("confirmation code sent", "username", user.Username)
	return nil
}

// register enforces the strict creation rules and stores the pending user.
func (s *authService) register(ctx context.Context, username, email string) (*models.User, error) {
	if strings.EqualFold(username, "me") {
		return nil, ErrReservedUsername
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if _, err := s.userRepo.FindByUsernameIgnoreCase(ctx, username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmailIgnoreCase(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken exchanges (username, confirmation code) for a signed access
// token. The code is not consumed; it lapses on its own expiry or when the
// bound account state changes.
func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !s.signer.CheckCode(user, confirmationCode) {
		return "", ErrInvalidCode
	}

	// last_login is outside the code's state hash, so stamping it here
	// leaves the code valid for further exchanges
	now := time.Now()
	user.Confirmed = true
	user.LastLogin = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	role := user.Role
	if user.IsAdmin() {
		role = models.RoleAdmin
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			Subject:   "access",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
