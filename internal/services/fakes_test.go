package services

import (
	"context"
	"fmt"
	"sync"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"
)

// In-memory store fakes shared by the service tests.

type edge struct{ from, to string }

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	follows   []edge
	bookmarks []edge

	toggleErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperr.New(apperr.Conflict, "username or email already taken")
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (s *fakeUserStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, userID string, bio, gender, avatarURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	if bio != nil {
		u.Bio = *bio
	}
	if gender != nil {
		u.Gender = *gender
	}
	if avatarURL != nil {
		u.AvatarURL = *avatarURL
	}
	return nil
}

func (s *fakeUserStore) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.PushToken = pushToken
	return nil
}

func (s *fakeUserStore) ListSuggested(_ context.Context, excludeID string) ([]*models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.UserSummary
	for id, u := range s.users {
		if id != excludeID {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (s *fakeUserStore) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.follows {
		if e.from == followerID && e.to == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) AddFollow(_ context.Context, followerID, followeeID string) error {
	if ok, _ := s.IsFollowing(context.Background(), followerID, followeeID); ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follows = append(s.follows, edge{followerID, followeeID})
	return nil
}

func (s *fakeUserStore) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.follows[:0]
	for _, e := range s.follows {
		if !(e.from == followerID && e.to == followeeID) {
			kept = append(kept, e)
		}
	}
	s.follows = kept
	return nil
}

func (s *fakeUserStore) Followers(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for _, e := range s.follows {
		if e.to == userID {
			ids = append(ids, e.from)
		}
	}
	return ids, nil
}

func (s *fakeUserStore) Following(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for _, e := range s.follows {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	return ids, nil
}

func (s *fakeUserStore) ToggleBookmark(_ context.Context, userID, postID string) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.bookmarks {
		if e.from == userID && e.to == postID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return false, nil
		}
	}
	s.bookmarks = append(s.bookmarks, edge{userID, postID})
	return true, nil
}

func (s *fakeUserStore) Bookmarks(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for _, e := range s.bookmarks {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	return ids, nil
}

type fakePostStore struct {
	mu       sync.Mutex
	posts    map[string]*models.Post
	order    []string
	comments *fakeCommentStore
}

func newFakePostStore(comments *fakeCommentStore) *fakePostStore {
	return &fakePostStore{
		posts:    make(map[string]*models.Post),
		comments: comments,
	}
}

func (s *fakePostStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	s.order = append(s.order, post.ID)
	return nil
}

func (s *fakePostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	cp := *p
	cp.Likes = append([]string{}, p.Likes...)
	return &cp, nil
}

func (s *fakePostStore) ListAll(_ context.Context, _, _ int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Post{}
	for i := len(s.order) - 1; i >= 0; i-- {
		if p, ok := s.posts[s.order[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePostStore) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	all, _ := s.ListAll(ctx, 0, 0)
	out := []*models.Post{}
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePostStore) PostIDs(ctx context.Context, authorID string) ([]string, error) {
	posts, _ := s.ListByAuthor(ctx, authorID)
	ids := []string{}
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *fakePostStore) AddLike(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return apperr.New(apperr.NotFound, "post not found")
	}
	for _, id := range p.Likes {
		if id == userID {
			return nil
		}
	}
	p.Likes = append(p.Likes, userID)
	return nil
}

func (s *fakePostStore) RemoveLike(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return apperr.New(apperr.NotFound, "post not found")
	}
	kept := p.Likes[:0]
	for _, id := range p.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	p.Likes = kept
	return nil
}

func (s *fakePostStore) Delete(ctx context.Context, postID string) error {
	s.mu.Lock()
	if _, ok := s.posts[postID]; !ok {
		s.mu.Unlock()
		return apperr.New(apperr.NotFound, "post not found")
	}
	delete(s.posts, postID)
	s.mu.Unlock()
	// Mirror the repository contract: deleting a post removes its comments.
	s.comments.deleteByPost(postID)
	return nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func (s *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, comment)
	return nil
}

func (s *fakeCommentStore) ListByPost(_ context.Context, postID string) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Comment{}
	for i := len(s.comments) - 1; i >= 0; i-- {
		if s.comments[i].PostID == postID {
			out = append(out, s.comments[i])
		}
	}
	return out, nil
}

func (s *fakeCommentStore) deleteByPost(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	s.comments = kept
}

type fakeConversationStore struct {
	mu       sync.Mutex
	convs    map[[2]string]string
	messages []*models.Message
	nextConv int

	addErr error
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{convs: make(map[[2]string]string)}
}

func sortPair(a, b string) [2]string {
	if a > b {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

func (s *fakeConversationStore) AddMessage(_ context.Context, msg *models.Message) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := sortPair(msg.SenderID, msg.ReceiverID)
	convID, ok := s.convs[pair]
	if !ok {
		s.nextConv++
		convID = fmt.Sprintf("conv-%d", s.nextConv)
		s.convs[pair] = convID
	}
	msg.ConversationID = convID
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeConversationStore) MessagesBetween(_ context.Context, a, b string) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := sortPair(a, b)
	out := []*models.Message{}
	for _, m := range s.messages {
		if sortPair(m.SenderID, m.ReceiverID) == pair {
			out = append(out, m)
		}
	}
	return out, nil
}

// recorderSink records events synchronously for assertions.
type recorderSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorderSink) Notify(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

type fakeUploader struct {
	err error
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.test/" + key, nil
}
