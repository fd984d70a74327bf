package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"courier-chat/config"
	"courier-chat/internal/domain/user"
	"courier-chat/internal/repository"
	courier_errors "courier-chat/pkg/errors"
	"courier-chat/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

var errNoActiveAccount = fmt.Errorf("no active account found with the given credentials: %w", courier_errors.ErrUnauthorized)

type AuthService struct {
	userRepo   repository.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.JWTExpiryMin) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshExpiry) * 24 * time.Hour,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type LoginInput struct {
	Username string
	Password string
}

type TokenPair struct {
	Access  string
	Refresh string
}

type AccessClaims struct {
	UserID    string `json:"sub"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegister(in); err != nil {
		return user.User{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return user.User{}, err
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return user.User{}, err
	}
	return *newUser, nil
}

// Login exchanges credentials for an access and refresh token. Unknown users,
// wrong passwords and inactive accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	if err := validateLogin(in); err != nil {
		return TokenPair{}, err
	}

	u, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, courier_errors.ErrNotFound) {
			return TokenPair{}, errNoActiveAccount
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		return TokenPair{}, errNoActiveAccount
	}
	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return TokenPair{}, errNoActiveAccount
	}

	access, err := s.IssueAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issue(u.ID, RefreshTokenType, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh issues a new access token from a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, courier_errors.Invalid("refresh", "this field is required")
	}

	claims, err := s.parse(refreshToken, RefreshTokenType)
	if err != nil {
		return TokenPair{}, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenPair{}, courier_errors.ErrUnauthorized
	}

	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, courier_errors.ErrNotFound) {
			return TokenPair{}, errNoActiveAccount
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		return TokenPair{}, errNoActiveAccount
	}

	access, err := s.IssueAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access}, nil
}

// IssueAccessToken signs a short-lived token authenticating userID.
func (s *AuthService) IssueAccessToken(userID uuid.UUID) (string, error) {
	return s.issue(userID, AccessTokenType, s.accessTTL)
}

// ParseAccessToken validates signature, expiry and token type.
func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	return s.parse(tokenString, AccessTokenType)
}

func (s *AuthService) parse(tokenString, tokenType string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, courier_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, courier_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return AccessClaims{}, courier_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.TokenType != tokenType {
		return AccessClaims{}, courier_errors.ErrUnauthorized
	}

	return *claims, nil
}

func (s *AuthService) issue(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, courier_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, courier_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, courier_errors.ErrForbidden):
		return 403
	case errors.Is(err, courier_errors.ErrNotFound):
		return 404
	case errors.Is(err, courier_errors.ErrAlreadyExists), errors.Is(err, courier_errors.ErrConflict):
		return 409
	case errors.Is(err, courier_errors.ErrRateLimited):
		return 429
	case errors.Is(err, courier_errors.ErrServiceUnavailable):
		return 503
	default:
		return 500
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext stores the authenticated user id. The string form is also
// stored under the logger key so request logs carry it.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func validateRegister(in RegisterInput) error {
	if in.Username == "" {
		return courier_errors.Invalid("username", "this field is required")
	}
	if utf8.RuneCountInString(in.Username) > 150 {
		return courier_errors.Invalid("username", "ensure this field has no more than 150 characters")
	}
	if len(in.Password) < 8 {
		return courier_errors.Invalid("password", "ensure this field has at least 8 characters")
	}
	// bcrypt rejects longer input.
	if len(in.Password) > 72 {
		return courier_errors.Invalid("password", "ensure this field has no more than 72 bytes")
	}
	return nil
}

func validateLogin(in LoginInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return courier_errors.Invalid("username", "this field is required")
	}
	if in.Password == "" {
		return courier_errors.Invalid("password", "this field is required")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
