package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pixelgram-backend/internal/middleware"
	"pixelgram-backend/internal/models"
	"pixelgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20 // 10 MiB

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService  *services.UserService
	graphService *services.GraphService
	cookieSecure bool
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, graphService *services.GraphService, cookieSecure bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		graphService: graphService,
		cookieSecure: cookieSecure,
	}
}

// RegisterRequest is the body for POST /user/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /user/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	envelope
	User *models.User `json:"user,omitempty"`
}

// Register handles POST /api/v1/user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: "validation"})
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	respondJSON(w, http.StatusOK, userResponse{
		envelope: ok("user registered successfully"),
		User:     user,
	})
}

// Login handles POST /api/v1/user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: "validation"})
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	respondJSON(w, http.StatusOK, userResponse{
		envelope: ok(fmt.Sprintf("welcome back %s", user.Username)),
		User:     user,
	})
}

// Logout handles POST /api/v1/user/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, ok("logout successfully"))
}

// GetProfile handles GET /api/v1/user/{user_id}/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		envelope: ok("user fetched successfully"),
		User:     user,
	})
}

// EditProfile handles POST /api/v1/user/profile/edit
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid multipart form", Error: "validation"})
		return
	}

	var bio, gender *string
	if v := r.FormValue("bio"); v != "" {
		bio = &v
	}
	if v := r.FormValue("gender"); v != "" {
		gender = &v
	}

	var avatar []byte
	var avatarType string
	if file, header, err := r.FormFile("profilePhoto"); err == nil {
		defer file.Close()
		avatar, err = io.ReadAll(file)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, envelope{Message: "failed to read profile picture", Error: "validation"})
			return
		}
		avatarType = header.Header.Get("Content-Type")
	}

	user, err := h.userService.EditProfile(ctx, userID, bio, gender, avatar, avatarType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to edit profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		envelope: ok("profile updated successfully"),
		User:     user,
	})
}

type suggestedUsersResponse struct {
	envelope
	SuggestedUsers []*models.UserSummary `json:"suggested_users"`
}

// GetSuggestedUsers handles GET /api/v1/user/suggested
func (h *UserHandler) GetSuggestedUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	users, err := h.userService.SuggestedUsers(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list suggested users")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, suggestedUsersResponse{
		envelope:       ok("suggested users found"),
		SuggestedUsers: users,
	})
}

type followResponse struct {
	envelope
	EdgeState models.EdgeState `json:"edge_state"`
}

// FollowOrUnfollow handles POST /api/v1/user/followOrUnfollow/{user_id}
func (h *UserHandler) FollowOrUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	targetID := chi.URLParam(r, "user_id")

	state, err := h.graphService.FollowOrUnfollow(ctx, actorID, targetID)
	if err != nil {
		log.Error().
			Err(err).
			Str("actor_id", actorID).
			Str("target_id", targetID).
			Msg("Failed to toggle follow edge")
		respondError(w, err)
		return
	}

	log.Info().
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Str("edge_state", string(state)).
		Msg("Follow edge toggled")

	respondJSON(w, http.StatusOK, followResponse{
		envelope:  ok(fmt.Sprintf("user %s", state)),
		EdgeState: state,
	})
}

// PushTokenRequest is the body for POST /user/pushToken
type PushTokenRequest struct {
	Token string `json:"token"`
}

// RegisterPushToken handles POST /api/v1/user/pushToken
func (h *UserHandler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: "validation"})
		return
	}

	if err := h.userService.RegisterPushToken(ctx, userID, req.Token); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to register push token")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ok("push token registered"))
}
