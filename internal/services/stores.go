package services

import (
	"context"

	"pixelgram-backend/internal/models"
)

// Store contracts the services depend on. internal/repository provides
// the PostgreSQL implementations; tests substitute in-memory fakes.

// UserStore persists users, follow edges and bookmarks.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, bio, gender, avatarURL *string) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	ListSuggested(ctx context.Context, excludeID string) ([]*models.UserSummary, error)

	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)

	ToggleBookmark(ctx context.Context, userID, postID string) (bool, error)
	Bookmarks(ctx context.Context, userID string) ([]string, error)
}

// PostStore persists posts and their like sets.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	PostIDs(ctx context.Context, authorID string) ([]string, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, postID string) error
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// ConversationStore persists conversations and messages.
type ConversationStore interface {
	AddMessage(ctx context.Context, msg *models.Message) error
	MessagesBetween(ctx context.Context, a, b string) ([]*models.Message, error)
}

// Uploader stores media and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
