package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a
	// previous submission has not settled.
	ErrSubmitInFlight = errors.New("comment submission already in flight")
	// ErrEmptyDraft is returned when Submit is called with an empty draft.
	ErrEmptyDraft = errors.New("comment draft is empty")
)

// CommentsController manages a post's comment list. Creation is
// append-only optimistic: the comment is never rendered speculatively,
// because the server response carries denormalized author fields the
// client cannot fabricate; instead the submit affordance is disabled
// until the canonical row arrives. Deletion and per-comment likes use
// the regular optimistic-with-rollback pattern.
type CommentsController struct {
	api   *Client
	cache *RelationCache
	slug  string

	mu         sync.Mutex
	comments   []Comment
	draft      string
	submitting bool
	closed     bool
	notice     string
}

// NewCommentsController creates a controller for a post's comments.
func NewCommentsController(api *Client, cache *RelationCache, slug string) *CommentsController {
	return &CommentsController{api: api, cache: cache, slug: slug}
}

// Load fetches the comment list and seeds the relation cache with each
// comment's like state.
func (cc *CommentsController) Load(ctx context.Context) error {
	comments, err := cc.api.ListComments(ctx, cc.slug)
	if err != nil {
		return err
	}
	cc.mu.Lock()
	if cc.closed {
		cc.mu.Unlock()
		return nil
	}
	cc.comments = comments
	cc.mu.Unlock()
	for _, c := range comments {
		cc.cache.Seed(CommentLikeKey(c.ID), c.LikedByMe, c.LikesCount)
	}
	return nil
}

// Comments returns a copy of the current list.
func (cc *CommentsController) Comments() []Comment {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	out := make([]Comment, len(cc.comments))
	copy(out, cc.comments)
	return out
}

// Draft returns the current input text.
func (cc *CommentsController) Draft() string {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.draft
}

// SetDraft replaces the current input text.
func (cc *CommentsController) SetDraft(s string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.draft = s
}

// Submitting reports whether a submission is in flight.
func (cc *CommentsController) Submitting() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.submitting
}

// Notice returns and clears the last transient notice.
func (cc *CommentsController) Notice() string {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	n := cc.notice
	cc.notice = ""
	return n
}

// Close detaches the controller; late responses no longer mutate it.
func (cc *CommentsController) Close() {
	cc.mu.Lock()
	cc.closed = true
	cc.mu.Unlock()
}

// Submit sends the draft. On success the server's canonical comment is
// prepended and the draft cleared; on failure the draft is retained so
// the user can retry, and the failure becomes a transient notice.
func (cc *CommentsController) Submit(ctx context.Context) error {
	cc.mu.Lock()
	if cc.closed {
		cc.mu.Unlock()
		return ErrControllerClosed
	}
	if cc.submitting {
		cc.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft := strings.TrimSpace(cc.draft)
	if draft == "" {
		cc.mu.Unlock()
		return ErrEmptyDraft
	}
	cc.submitting = true
	cc.mu.Unlock()

	created, err := cc.api.CreateComment(ctx, cc.slug, draft)

	cc.mu.Lock()
	cc.submitting = false
	if cc.closed {
		cc.mu.Unlock()
		return err
	}
	if err != nil {
		cc.notice = noticeFor(err)
		cc.mu.Unlock()
		return err
	}
	cc.comments = append([]Comment{*created}, cc.comments...)
	cc.draft = ""
	cc.mu.Unlock()

	cc.cache.Seed(CommentLikeKey(created.ID), created.LikedByMe, created.LikesCount)
	return nil
}

// Delete optimistically removes a comment, restoring it in place if the
// request fails.
func (cc *CommentsController) Delete(ctx context.Context, commentID string) error {
	cc.mu.Lock()
	if cc.closed {
		cc.mu.Unlock()
		return ErrControllerClosed
	}
	idx := -1
	for i, c := range cc.comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		cc.mu.Unlock()
		return nil
	}
	removed := cc.comments[idx]
	cc.comments = append(cc.comments[:idx:idx], cc.comments[idx+1:]...)
	cc.mu.Unlock()

	err := cc.api.DeleteComment(ctx, commentID)

	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.closed {
		return err
	}
	if err != nil {
		if idx > len(cc.comments) {
			idx = len(cc.comments)
		}
		cc.comments = append(cc.comments[:idx], append([]Comment{removed}, cc.comments[idx:]...)...)
		cc.notice = noticeFor(err)
		return err
	}
	return nil
}

// LikeController returns a toggle controller for one comment's like
// button, backed by the shared cache.
func (cc *CommentsController) LikeController(commentID string) *ToggleController {
	return NewCommentLikeController(cc.api, cc.cache, cc.slug, commentID)
}

func noticeFor(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusForbidden {
			return apiErr.Message
		}
	}
	return "Something went wrong. Please try again."
}
