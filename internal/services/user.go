package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// DefaultTokenExpiry matches how long a login stays valid when not configured
	DefaultTokenExpiry = 365 * 24 * time.Hour
)

// Claims is the content of an access token. The subject is the user ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserService handles accounts and authentication
type UserService struct {
	store     repository.Store
	jwtSecret string
	expiry    time.Duration
	clock     Clock
}

// NewUserService creates a new user service
func NewUserService(store repository.Store, jwtSecret string, expiry time.Duration, clock Clock) *UserService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &UserService{
		store:     store,
		jwtSecret: jwtSecret,
		expiry:    expiry,
		clock:     clock,
	}
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the public page of a user
type Profile struct {
	User      *models.User    `json:"user"`
	Climbs    []*models.Climb `json:"climbs"`
	Following []*models.User  `json:"following"`
	Followers []*models.User  `json:"followers"`
}

func (r RegisterRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.Validation("name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return apperrors.Validation("a valid email is required")
	}
	if len(r.Password) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// Register creates a new account
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues an access token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.New(apperrors.ErrInvalidCredentials, "invalid email or password")
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperrors.New(apperrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	now := s.clock.Now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return 0, apperrors.New(apperrors.ErrUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, apperrors.New(apperrors.ErrUnauthorized, "invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrUnauthorized, "user id not found in token")
	}

	return userID, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, userID)
}

// Profile returns the public page of userID
func (s *UserService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	repos := s.store.Repos()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	climbs, err := repos.Climbs.ListByInterest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get climbs of interest: %w", err)
	}

	following, err := repos.Follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}

	followers, err := repos.Follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}

	return &Profile{
		User:      user,
		Climbs:    climbs,
		Following: following,
		Followers: followers,
	}, nil
}
