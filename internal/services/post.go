package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/google/uuid"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

// PostService handles the post lifecycle, likes, comments and bookmarks
type PostService struct {
	posts    PostStore
	comments CommentStore
	users    UserStore
	uploader Uploader
	notifier NotificationSink
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, comments CommentStore, users UserStore, uploader Uploader, notifier NotificationSink) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		users:    users,
		uploader: uploader,
		notifier: notifier,
	}
}

// AddPost uploads the image and creates the post
func (s *PostService) AddPost(ctx context.Context, authorID, caption string, image []byte, contentType string) (*models.Post, error) {
	if len(image) == 0 {
		return nil, apperr.New(apperr.Validation, "image is required")
	}

	postID := uuid.New().String()
	key := fmt.Sprintf("posts/%s/%s", authorID, postID)
	imageURL, err := s.uploader.Upload(ctx, key, contentType, image)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to upload image", err)
	}

	post := &models.Post{
		ID:        postID,
		AuthorID:  authorID,
		Caption:   caption,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
		Likes:     []string{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}

// AllPosts returns the feed, newest first, with comments hydrated
func (s *PostService) AllPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.posts.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MyPosts returns the author's posts, newest first
func (s *PostService) MyPosts(ctx context.Context, authorID string) ([]*models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) hydrateComments(ctx context.Context, posts []*models.Post) error {
	for _, post := range posts {
		comments, err := s.comments.ListByPost(ctx, post.ID)
		if err != nil {
			return err
		}
		post.Comments = comments
	}
	return nil
}

// Like adds the actor to the post's like set. Liking twice is a no-op.
// A like on someone else's post emits a best-effort notification to
// the author.
func (s *PostService) Like(ctx context.Context, actorID, postID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.posts.AddLike(ctx, postID, actorID); err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		if actor, err := s.users.GetByID(ctx, actorID); err == nil {
			s.notifier.Notify(Event{
				RecipientID: post.AuthorID,
				Type:        "like",
				UserID:      actorID,
				UserDetails: actor.Summary(),
				PostID:      postID,
				Message:     fmt.Sprintf("%s liked your post", actor.Username),
			})
		}
	}
	return s.posts.GetByID(ctx, postID)
}

// Dislike removes the actor from the post's like set. Removing an
// absent like is a no-op, not an error.
func (s *PostService) Dislike(ctx context.Context, actorID, postID string) (*models.Post, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.posts.RemoveLike(ctx, postID, actorID); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}

// Bookmark toggles the post's membership in the actor's bookmark set
func (s *PostService) Bookmark(ctx context.Context, actorID, postID string) (models.BookmarkState, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return "", err
	}

	saved, err := s.users.ToggleBookmark(ctx, actorID, postID)
	if err != nil {
		return "", err
	}
	if saved {
		return models.BookmarkSaved, nil
	}
	return models.BookmarkUnsaved, nil
}

// AddComment creates a comment on a post
func (s *PostService) AddComment(ctx context.Context, actorID, postID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.Validation, "text is required")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  actorID,
		Body:      text,
		CreatedAt: time.Now(),
		Author:    actor.Summary(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns a post's comments, newest first
func (s *PostService) Comments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// DeletePost deletes a post and everything referencing it. Only the
// author may delete.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return apperr.New(apperr.Unauthorized, "only the author can delete this post")
	}
	return s.posts.Delete(ctx, postID)
}
