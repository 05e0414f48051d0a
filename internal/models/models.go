package models

import "time"

// User represents a registered user in the system
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Gender       string    `json:"gender,omitempty"`
	AvatarURL    string    `json:"profile_picture"`
	PushToken    *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Derived from the social graph and content tables on profile reads.
	Followers []string `json:"followers"`
	Following []string `json:"following"`
	Posts     []string `json:"posts"`
	Bookmarks []string `json:"bookmarks"`
}

// UserSummary is the slim author projection embedded in posts,
// comments and notification events.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"profile_picture"`
}

// Summary returns the slim projection of a user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// Post represents a published post
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`

	Author   *UserSummary `json:"author,omitempty"`
	Likes    []string     `json:"likes"`
	Comments []*Comment   `json:"comments,omitempty"`
}

// Comment represents a comment on a post. Comments live and die with
// their post.
type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post_id"`
	AuthorID  string       `json:"author_id"`
	Body      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	Author    *UserSummary `json:"author,omitempty"`
}

// Conversation groups all messages between a fixed pair of users.
// UserAID is always the lexicographically smaller id, so an unordered
// participant pair maps to exactly one row.
type Conversation struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a direct message. Immutable once created.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Body           string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// EdgeState is the follow relationship resulting from a toggle.
type EdgeState string

const (
	EdgeFollowed   EdgeState = "followed"
	EdgeUnfollowed EdgeState = "unfollowed"
)

// BookmarkState is the result of a bookmark toggle.
type BookmarkState string

const (
	BookmarkSaved   BookmarkState = "saved"
	BookmarkUnsaved BookmarkState = "unsaved"
)
