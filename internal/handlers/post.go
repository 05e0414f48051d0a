package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"pixelgram-backend/internal/middleware"
	"pixelgram-backend/internal/models"
	"pixelgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type postResponse struct {
	envelope
	Post *models.Post `json:"post,omitempty"`
}

type postsResponse struct {
	envelope
	Posts []*models.Post `json:"posts"`
}

// AddPost handles POST /api/v1/post/addpost
func (h *PostHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid multipart form", Error: "validation"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "image required", Error: "validation"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "failed to read image", Error: "validation"})
		return
	}

	post, err := h.postService.AddPost(ctx, userID, r.FormValue("caption"), image, header.Header.Get("Content-Type"))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add post")
		respondError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", post.ID).Msg("Post added")
	respondJSON(w, http.StatusOK, postResponse{
		envelope: ok("new post added"),
		Post:     post,
	})
}

// AllPosts handles GET /api/v1/post/all
func (h *PostHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.postService.AllPosts(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, postsResponse{
		envelope: ok("posts fetched successfully"),
		Posts:    posts,
	})
}

// MyPosts handles GET /api/v1/post/userpost/all
func (h *PostHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	posts, err := h.postService.MyPosts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list user posts")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, postsResponse{
		envelope: ok("posts fetched successfully"),
		Posts:    posts,
	})
}

// Like handles POST /api/v1/post/{post_id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, true)
}

// Dislike handles POST /api/v1/post/{post_id}/dislike
func (h *PostHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, false)
}

func (h *PostHandler) toggleLike(w http.ResponseWriter, r *http.Request, like bool) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var post *models.Post
	var err error
	message := "post liked"
	if like {
		post, err = h.postService.Like(ctx, userID, postID)
	} else {
		post, err = h.postService.Dislike(ctx, userID, postID)
		message = "post disliked"
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to toggle like")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, postResponse{
		envelope: ok(message),
		Post:     post,
	})
}

type bookmarkResponse struct {
	envelope
	Type models.BookmarkState `json:"type"`
}

// Bookmark handles POST /api/v1/post/{post_id}/bookmark
func (h *PostHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	state, err := h.postService.Bookmark(ctx, userID, postID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to toggle bookmark")
		respondError(w, err)
		return
	}

	message := "post bookmarked"
	if state == models.BookmarkUnsaved {
		message = "post removed from bookmark"
	}
	respondJSON(w, http.StatusOK, bookmarkResponse{
		envelope: ok(message),
		Type:     state,
	})
}

// CommentRequest is the body for POST /post/{post_id}/comment
type CommentRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	envelope
	Comment *models.Comment `json:"comment,omitempty"`
}

type commentsResponse struct {
	envelope
	Comments []*models.Comment `json:"comments"`
}

// AddComment handles POST /api/v1/post/{post_id}/comment
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: "validation"})
		return
	}

	comment, err := h.postService.AddComment(ctx, userID, postID, req.Text)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to add comment")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, commentResponse{
		envelope: ok("comment added"),
		Comment:  comment,
	})
}

// Comments handles GET /api/v1/post/{post_id}/comment/all
func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")

	comments, err := h.postService.Comments(r.Context(), postID)
	if err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to list comments")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, commentsResponse{
		envelope: ok("comments fetched"),
		Comments: comments,
	})
}

// Delete handles DELETE /api/v1/post/delete/{post_id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	if err := h.postService.DeletePost(ctx, userID, postID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to delete post")
		respondError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post deleted")
	respondJSON(w, http.StatusOK, ok("post deleted successfully"))
}
