package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a comment on a post
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    string    `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID    uint      `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentResponse is a comment enriched with the denormalized author
// fields the UI needs to render it without a second round-trip.
type CommentResponse struct {
	Comment
	AuthorUsername  string `json:"author_username"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
	LikesCount      int64  `json:"likes_count"`
	LikedByMe       bool   `json:"liked_by_me"`
}
