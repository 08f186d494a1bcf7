package models

// Action tags accepted by the post actions endpoint.
const (
	ActionLike        = "like"
	ActionComment     = "comment"
	ActionLikeComment = "like_comment"
	ActionReaction    = "reaction"
)

// ActionRequest is the tagged union posted to /posts/:slug/actions.
// Which fields are required depends on the Action tag; per-variant
// shapes are validated against the payload structs below.
type ActionRequest struct {
	Action     string `json:"action"`
	Content    string `json:"content,omitempty"`
	CommentID  string `json:"commentId,omitempty"`
	ReactionID string `json:"reactionId,omitempty"`
}

// CommentActionPayload is the validated shape of the "comment" variant.
type CommentActionPayload struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentLikeActionPayload is the validated shape of the "like_comment" variant.
type CommentLikeActionPayload struct {
	CommentID string `json:"commentId" validate:"required,uuid"`
}

// ReactionActionPayload is the validated shape of the "reaction" variant.
// The reaction type is an opaque string; the server bounds its length
// but deliberately does not enforce a closed set of types.
type ReactionActionPayload struct {
	ReactionID string `json:"reactionId" validate:"required,max=64"`
}

// LikeResult is the canonical post-like state after a toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total_likes"`
}

// CommentLikeResult is the canonical comment-like state after a toggle.
type CommentLikeResult struct {
	Liked bool `json:"liked"`
}

// ReactionResult is the canonical reaction state after a toggle.
type ReactionResult struct {
	Reacted bool `json:"reacted"`
}
