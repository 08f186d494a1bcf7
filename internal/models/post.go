package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB. For the interaction
// endpoints a post is a lookup key plus a visibility boundary; editing
// lives elsewhere.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Slug      string             `json:"slug" bson:"slug"`
	AuthorID  uint               `json:"author_id" bson:"author_id"` // ID of the user who owns the post
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Published bool               `json:"published" bson:"published"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// VisibleTo reports whether a post can be seen by the given user.
// Unpublished posts are indistinguishable from absent ones for
// everyone but their owner.
func (p *Post) VisibleTo(userID uint) bool {
	return p.Published || p.AuthorID == userID
}

// PostDetail is the read-surface view of a post with its interaction summary.
type PostDetail struct {
	Post          Post            `json:"post"`
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	LikedByMe     bool            `json:"liked_by_me"`
	MyReactions   []string        `json:"my_reactions,omitempty"`
	Reactions     []ReactionCount `json:"reactions,omitempty"`
}
