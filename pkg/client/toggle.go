package client

import (
	"context"
	"errors"
	"sync"
)

// ErrControllerClosed is returned by Toggle after Close.
var ErrControllerClosed = errors.New("controller closed")

// ToggleFunc issues the toggle request and returns the canonical state
// reported by the server. hasCount is true when the server also returns
// an authoritative count (post likes do, comment likes and reactions
// do not).
type ToggleFunc func(ctx context.Context) (active bool, count int64, hasCount bool, err error)

// ToggleController binds one rendered control to a cache entry and
// drives the Settled/Pending cycle: optimistic flip on click, then
// reconciliation or rollback when the response lands. Clicking again
// while a request is in flight is allowed; each click computes its
// target from the then-current displayed state and the client settles
// on whatever the last response says.
type ToggleController struct {
	cache  *RelationCache
	key    RelationKey
	toggle ToggleFunc

	mu     sync.Mutex
	closed bool

	// OnNotice, when set, receives the transient user-facing message
	// for a failed toggle. Failures never change the settled state
	// beyond the rollback.
	OnNotice func(string)
}

// NewToggleController creates a controller over an arbitrary ToggleFunc.
func NewToggleController(cache *RelationCache, key RelationKey, toggle ToggleFunc) *ToggleController {
	return &ToggleController{cache: cache, key: key, toggle: toggle}
}

// NewPostLikeController creates a controller for a post's like button.
func NewPostLikeController(api *Client, cache *RelationCache, slug string) *ToggleController {
	return NewToggleController(cache, PostLikeKey(slug), func(ctx context.Context) (bool, int64, bool, error) {
		res, err := api.ToggleLike(ctx, slug)
		if err != nil {
			return false, 0, false, err
		}
		return res.Liked, res.TotalLikes, true, nil
	})
}

// NewCommentLikeController creates a controller for one comment's like button.
func NewCommentLikeController(api *Client, cache *RelationCache, slug, commentID string) *ToggleController {
	return NewToggleController(cache, CommentLikeKey(commentID), func(ctx context.Context) (bool, int64, bool, error) {
		res, err := api.ToggleCommentLike(ctx, slug, commentID)
		if err != nil {
			return false, 0, false, err
		}
		return res.Liked, 0, false, nil
	})
}

// NewReactionController creates a controller for one reaction type on a post.
func NewReactionController(api *Client, cache *RelationCache, slug, reactionID string) *ToggleController {
	return NewToggleController(cache, ReactionKey(slug, reactionID), func(ctx context.Context) (bool, int64, bool, error) {
		res, err := api.ToggleReaction(ctx, slug, reactionID)
		if err != nil {
			return false, 0, false, err
		}
		return res.Reacted, 0, false, nil
	})
}

// State returns the current displayed state for this control.
func (t *ToggleController) State() RelationState {
	return t.cache.Get(t.key)
}

// Subscribe registers a change callback for this control's cache entry.
func (t *ToggleController) Subscribe(fn func(RelationState)) func() {
	return t.cache.Subscribe(t.key, fn)
}

// Close detaches the controller, e.g. on component unmount. Responses
// that arrive afterwards no longer touch the cached state.
func (t *ToggleController) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func (t *ToggleController) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Toggle performs one click: the displayed state flips synchronously,
// then the request is issued and the result reconciled. On failure the
// pre-click state is restored exactly and the error is surfaced as a
// transient notice.
func (t *ToggleController) Toggle(ctx context.Context) error {
	if t.isClosed() {
		return ErrControllerClosed
	}

	pre, target := t.cache.beginToggle(t.key)

	active, count, hasCount, err := t.toggle(ctx)

	if t.isClosed() {
		// The component is gone; applying the result would mutate
		// state nothing owns anymore.
		t.cache.finishDetached(t.key)
		return err
	}

	if err != nil {
		t.cache.finishRollback(t.key, pre)
		t.notice(err)
		return err
	}

	t.cache.finishReconcile(t.key, pre, target, active, count, hasCount)
	return nil
}

func (t *ToggleController) notice(err error) {
	if t.OnNotice == nil {
		return
	}
	// Validation and forbidden messages are informative, show them
	// as-is; everything else gets the generic transient notice.
	t.OnNotice(noticeFor(err))
}
