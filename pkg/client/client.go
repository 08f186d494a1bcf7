// Package client implements the interaction side of the blog API: a
// small HTTP client for the post actions endpoint plus the optimistic
// controllers components bind their like buttons, reaction bars and
// comment lists to.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// LikeResult is the canonical post-like state returned by the server.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total_likes"`
}

// CommentLikeResult is the canonical comment-like state.
type CommentLikeResult struct {
	Liked bool `json:"liked"`
}

// ReactionResult is the canonical reaction state.
type ReactionResult struct {
	Reacted bool `json:"reacted"`
}

// Comment is a comment as rendered by the client, including the
// denormalized author fields the server sends along.
type Comment struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id"`
	UserID          uint      `json:"user_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	AuthorUsername  string    `json:"author_username"`
	AuthorAvatarURL string    `json:"author_avatar_url,omitempty"`
	LikesCount      int64     `json:"likes_count"`
	LikedByMe       bool      `json:"liked_by_me"`
}

// ReactionCount is a per-type reaction tally on a post.
type ReactionCount struct {
	ReactionID string `json:"reaction_id"`
	Count      int64  `json:"count"`
}

// PostDetail is the post read surface with its interaction summary.
type PostDetail struct {
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	LikedByMe     bool            `json:"liked_by_me"`
	MyReactions   []string        `json:"my_reactions,omitempty"`
	Reactions     []ReactionCount `json:"reactions,omitempty"`
}

type actionRequest struct {
	Action     string `json:"action"`
	Content    string `json:"content,omitempty"`
	CommentID  string `json:"commentId,omitempty"`
	ReactionID string `json:"reactionId,omitempty"`
}

// Client talks to the blog interaction API with a bearer token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a Client. A nil httpc gets a default with a 10s timeout.
func NewClient(baseURL, token string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, httpc: httpc}
}

// ToggleLike flips the caller's like on a post.
func (c *Client) ToggleLike(ctx context.Context, slug string) (*LikeResult, error) {
	var out LikeResult
	if err := c.postAction(ctx, slug, actionRequest{Action: "like"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComment posts a comment and returns the server's canonical row.
func (c *Client) CreateComment(ctx context.Context, slug, content string) (*Comment, error) {
	var out Comment
	if err := c.postAction(ctx, slug, actionRequest{Action: "comment", Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleCommentLike flips the caller's like on a comment of the post.
func (c *Client) ToggleCommentLike(ctx context.Context, slug, commentID string) (*CommentLikeResult, error) {
	var out CommentLikeResult
	if err := c.postAction(ctx, slug, actionRequest{Action: "like_comment", CommentID: commentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleReaction flips one of the caller's reaction types on a post.
func (c *Client) ToggleReaction(ctx context.Context, slug, reactionID string) (*ReactionResult, error) {
	var out ReactionResult
	if err := c.postAction(ctx, slug, actionRequest{Action: "reaction", ReactionID: reactionID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPost fetches a post's interaction summary.
func (c *Client) GetPost(ctx context.Context, slug string) (*PostDetail, error) {
	var out PostDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComments fetches the comments of a post.
func (c *Client) ListComments(ctx context.Context, slug string) ([]Comment, error) {
	var out []Comment
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+url.PathEscape(slug)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment deletes a comment by ID.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/comments/"+url.PathEscape(commentID), nil, nil)
}

func (c *Client) postAction(ctx context.Context, slug string, req actionRequest, out interface{}) error {
	return c.do(ctx, http.MethodPost, "/api/v1/posts/"+url.PathEscape(slug)+"/actions", req, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
