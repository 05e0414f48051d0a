package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserService handles registration, authentication and profiles
type UserService struct {
	users     UserStore
	posts     PostStore
	uploader  Uploader
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserStore, posts PostStore, uploader Uploader, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		posts:     posts,
		uploader:  uploader,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user with a hashed credential
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.Validation, "username, email and password are required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "email already exists, please login")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		Followers:    []string{},
		Following:    []string{},
		Posts:        []string{},
		Bookmarks:    []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, "", apperr.New(apperr.Unauthenticated, "incorrect email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.Unauthenticated, "incorrect email or password")
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	if err := s.hydrate(ctx, user); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateJWT generates a signed token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}

// GetProfile retrieves a user with the social graph and content sets
// hydrated
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) hydrate(ctx context.Context, user *models.User) error {
	var err error
	if user.Followers, err = s.users.Followers(ctx, user.ID); err != nil {
		return err
	}
	if user.Following, err = s.users.Following(ctx, user.ID); err != nil {
		return err
	}
	if user.Posts, err = s.posts.PostIDs(ctx, user.ID); err != nil {
		return err
	}
	if user.Bookmarks, err = s.users.Bookmarks(ctx, user.ID); err != nil {
		return err
	}
	return nil
}

// EditProfile updates the caller's profile. The avatar, when present,
// is stored before the profile row is touched.
func (s *UserService) EditProfile(ctx context.Context, userID string, bio, gender *string, avatar []byte, avatarType string) (*models.User, error) {
	var avatarURL *string
	if len(avatar) > 0 {
		key := fmt.Sprintf("avatars/%s/%s", userID, uuid.New().String())
		url, err := s.uploader.Upload(ctx, key, avatarType, avatar)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to upload profile picture", err)
		}
		avatarURL = &url
	}

	if err := s.users.UpdateProfile(ctx, userID, bio, gender, avatarURL); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// SuggestedUsers retrieves everyone except the caller
func (s *UserService) SuggestedUsers(ctx context.Context, callerID string) ([]*models.UserSummary, error) {
	return s.users.ListSuggested(ctx, callerID)
}

// RegisterPushToken stores a device token for offline notification
// delivery
func (s *UserService) RegisterPushToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return apperr.New(apperr.Validation, "push token is required")
	}
	return s.users.UpdatePushToken(ctx, userID, &token)
}
