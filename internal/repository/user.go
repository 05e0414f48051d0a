package repository

import (
	"context"
	"errors"
	"fmt"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UserRepository handles database operations for users, follow edges
// and bookmarks
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, bio, gender, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Bio, user.Gender, user.AvatarURL, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Wrap(apperr.Conflict, "username or email already taken", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, bio, gender, avatar_url, push_token, created_at
		FROM users ` + where
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Bio, &user.Gender, &user.AvatarURL, &user.PushToken, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.NotFound, "user not found", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Exists checks if a user with the given id exists
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the mutable profile fields. Nil means keep the
// current value.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, bio, gender, avatarURL *string) error {
	query := `
		UPDATE users
		SET bio = COALESCE($1, bio),
		    gender = COALESCE($2, gender),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, bio, gender, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// ListSuggested retrieves all users except the caller
func (r *UserRepository) ListSuggested(ctx context.Context, excludeID string) ([]*models.UserSummary, error) {
	query := `
		SELECT id, username, avatar_url
		FROM users
		WHERE id != $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggested users: %w", err)
	}
	defer rows.Close()

	var users []*models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// IsFollowing checks whether a follow edge exists
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// AddFollow inserts a follow edge. Inserting an existing edge is a no-op.
func (r *UserRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to add follow edge: %w", err)
	}
	return nil
}

// RemoveFollow deletes a follow edge. Removing an absent edge is a no-op.
func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	if _, err := r.db.Exec(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to remove follow edge: %w", err)
	}
	return nil
}

// Followers returns the ids of users following userID
func (r *UserRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.edgeIDs(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at`, userID)
}

// Following returns the ids of users userID follows
func (r *UserRepository) Following(ctx context.Context, userID string) ([]string, error) {
	return r.edgeIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at`, userID)
}

func (r *UserRepository) edgeIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow edges: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow edges: %w", err)
	}
	return ids, nil
}

// ToggleBookmark flips the bookmark membership of postID for userID
// inside a single transaction and returns true when the post ended up
// saved. The delete-then-insert runs atomically so concurrent toggles
// serialize on the row instead of racing a read-then-write.
func (r *UserRepository) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin bookmark toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to remove bookmark: %w", err)
	}

	saved := false
	if result.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO bookmarks (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, post_id) DO NOTHING
		`, userID, postID)
		if err != nil {
			return false, fmt.Errorf("failed to add bookmark: %w", err)
		}
		saved = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit bookmark toggle: %w", err)
	}
	return saved, nil
}

// Bookmarks returns the ids of posts saved by userID
func (r *UserRepository) Bookmarks(ctx context.Context, userID string) ([]string, error) {
	return r.edgeIDs(ctx,
		`SELECT post_id FROM bookmarks WHERE user_id = $1 ORDER BY created_at`, userID)
}
