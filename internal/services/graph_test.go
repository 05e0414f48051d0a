package services

import (
	"context"
	"testing"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowOrUnfollow_Toggle(t *testing.T) {
	alice, bob := twoUsers()
	users := newFakeUserStore(alice, bob)
	sink := &recorderSink{}
	svc := NewGraphService(users, sink)
	ctx := context.Background()

	state, err := svc.FollowOrUnfollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EdgeFollowed, state)

	followers, _ := users.Followers(ctx, alice.ID)
	following, _ := users.Following(ctx, bob.ID)
	assert.Equal(t, []string{bob.ID}, followers)
	assert.Equal(t, []string{alice.ID}, following)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, "follow", events[0].Type)
	assert.Equal(t, alice.ID, events[0].RecipientID)

	// Second call is the inverse: back to the original edge state.
	state, err = svc.FollowOrUnfollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EdgeUnfollowed, state)

	followers, _ = users.Followers(ctx, alice.ID)
	following, _ = users.Following(ctx, bob.ID)
	assert.Empty(t, followers)
	assert.Empty(t, following)
	assert.Len(t, sink.all(), 1, "unfollow must not notify")
}

func TestFollowOrUnfollow_BothSidesAlwaysAgree(t *testing.T) {
	alice, bob := twoUsers()
	users := newFakeUserStore(alice, bob)
	svc := NewGraphService(users, &recorderSink{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.FollowOrUnfollow(ctx, bob.ID, alice.ID)
		require.NoError(t, err)

		followers, _ := users.Followers(ctx, alice.ID)
		following, _ := users.Following(ctx, bob.ID)
		assert.Equal(t, len(followers), len(following),
			"the edge must never be observable on one side only")
	}
}

func TestFollowOrUnfollow_Failures(t *testing.T) {
	alice, bob := twoUsers()

	tests := []struct {
		name     string
		actor    string
		target   string
		wantKind apperr.Kind
	}{
		{"self follow", alice.ID, alice.ID, apperr.Validation},
		{"unknown target", alice.ID, "ghost", apperr.NotFound},
		{"unknown actor", "ghost", alice.ID, apperr.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserStore(alice, bob)
			svc := NewGraphService(users, &recorderSink{})

			_, err := svc.FollowOrUnfollow(context.Background(), tt.actor, tt.target)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.Empty(t, users.follows, "failed toggle must not mutate the graph")
		})
	}
}
