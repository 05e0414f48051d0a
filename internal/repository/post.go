package repository

import (
	"context"
	"errors"
	"fmt"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository handles database operations for posts and likes
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `
	p.id, p.author_id, p.caption, p.image_url, p.created_at,
	u.username, u.avatar_url,
	COALESCE(ARRAY(
		SELECT pl.user_id::text FROM post_likes pl
		WHERE pl.post_id = p.id
		ORDER BY pl.created_at
	), '{}')
`

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, caption, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.AuthorID, post.Caption, post.ImageURL, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its author summary and like set
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.NotFound, "post not found", err)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListAll retrieves posts newest first with pagination
func (r *PostRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

// ListByAuthor retrieves an author's posts newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
	`
	return r.list(ctx, query, authorID)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	var author models.UserSummary
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Caption, &post.ImageURL, &post.CreatedAt,
		&author.Username, &author.AvatarURL, &post.Likes,
	)
	if err != nil {
		return nil, err
	}
	author.ID = post.AuthorID
	post.Author = &author
	return &post, nil
}

// PostIDs returns the ids of an author's posts newest first
func (r *PostRepository) PostIDs(ctx context.Context, authorID string) ([]string, error) {
	query := `SELECT id FROM posts WHERE author_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query post ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post ids: %w", err)
	}
	return ids, nil
}

// AddLike inserts actorID into the post's like set. Liking an already
// liked post is a no-op.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

// RemoveLike removes actorID from the post's like set. Removing an
// absent like is a no-op.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// Delete removes a post together with its comments, likes and
// bookmark references in a single transaction.
func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin post deletion: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM comments WHERE post_id = $1`,
		`DELETE FROM post_likes WHERE post_id = $1`,
		`DELETE FROM bookmarks WHERE post_id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, postID); err != nil {
			return fmt.Errorf("failed to delete post references: %w", err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "post not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post deletion: %w", err)
	}
	return nil
}
