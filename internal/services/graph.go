package services

import (
	"context"
	"fmt"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"
)

// GraphService mutates the social graph
type GraphService struct {
	users    UserStore
	notifier NotificationSink
}

// NewGraphService creates a new social graph service
func NewGraphService(users UserStore, notifier NotificationSink) *GraphService {
	return &GraphService{
		users:    users,
		notifier: notifier,
	}
}

// FollowOrUnfollow toggles the follow edge from actor to target and
// returns the resulting edge state. The edge is a single row, so both
// sides of the relationship (actor.following, target.followers) always
// agree.
func (s *GraphService) FollowOrUnfollow(ctx context.Context, actorID, targetID string) (models.EdgeState, error) {
	if actorID == targetID {
		return "", apperr.New(apperr.Validation, "you cannot follow or unfollow yourself")
	}

	for _, id := range []string{actorID, targetID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return "", apperr.New(apperr.NotFound, "user not found")
		}
	}

	following, err := s.users.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}

	if following {
		if err := s.users.RemoveFollow(ctx, actorID, targetID); err != nil {
			return "", err
		}
		return models.EdgeUnfollowed, nil
	}

	if err := s.users.AddFollow(ctx, actorID, targetID); err != nil {
		return "", err
	}

	if actor, err := s.users.GetByID(ctx, actorID); err == nil {
		s.notifier.Notify(Event{
			RecipientID: targetID,
			Type:        "follow",
			UserID:      actorID,
			UserDetails: actor.Summary(),
			Message:     fmt.Sprintf("%s started following you", actor.Username),
		})
	}
	return models.EdgeFollowed, nil
}
