package models

import "time"

// Reaction represents an emoji reaction on a post. Unlike likes,
// reactions are multi-valued: a user may hold several distinct
// reaction types on the same post, but at most one row per
// (post, user, reaction).
type Reaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_reaction"` // MongoDB ObjectID as string
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_reaction"`
	ReactionID string    `json:"reaction_id" gorm:"size:64;uniqueIndex:idx_post_user_reaction"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReactionCount is a per-type tally of reactions on a post.
type ReactionCount struct {
	ReactionID string `json:"reaction_id"`
	Count      int64  `json:"count"`
}
