package client

import "sync"

// RelationKind identifies the kind of toggleable relation a cache
// entry mirrors.
type RelationKind string

const (
	KindPostLike    RelationKind = "post_like"
	KindCommentLike RelationKind = "comment_like"
	KindReaction    RelationKind = "reaction"
)

// RelationKey identifies one relation instance: a post's like set, a
// comment's like set, or one reaction type on a post.
type RelationKey struct {
	Kind RelationKind
	ID   string
}

// PostLikeKey returns the cache key for a post's likes.
func PostLikeKey(slug string) RelationKey {
	return RelationKey{Kind: KindPostLike, ID: slug}
}

// CommentLikeKey returns the cache key for a comment's likes.
func CommentLikeKey(commentID string) RelationKey {
	return RelationKey{Kind: KindCommentLike, ID: commentID}
}

// ReactionKey returns the cache key for one reaction type on a post.
func ReactionKey(slug, reactionID string) RelationKey {
	return RelationKey{Kind: KindReaction, ID: slug + "/" + reactionID}
}

// RelationState is the displayed state of one relation: whether the
// current user participates, the visible count, and how many toggle
// requests are in flight.
type RelationState struct {
	Active  bool
	Count   int64
	Pending int
}

// RelationCache is the single client-side source of truth for relation
// state. Every rendered control for the same key reads and mutates the
// same entry, so a like button in a list view and one in a detail view
// cannot drift apart.
type RelationCache struct {
	mu      sync.Mutex
	entries map[RelationKey]*RelationState
	subs    map[RelationKey]map[int]func(RelationState)
	nextSub int
}

// NewRelationCache creates an empty RelationCache.
func NewRelationCache() *RelationCache {
	return &RelationCache{
		entries: make(map[RelationKey]*RelationState),
		subs:    make(map[RelationKey]map[int]func(RelationState)),
	}
}

// Seed sets the last known server truth for a key, typically from a
// fetch on mount. Pending requests are unaffected.
func (c *RelationCache) Seed(key RelationKey, active bool, count int64) {
	c.mu.Lock()
	e := c.entry(key)
	e.Active = active
	e.Count = count
	state, fns := c.snapshotLocked(key)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// Get returns the current displayed state for a key.
func (c *RelationCache) Get(key RelationKey) RelationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.entry(key)
}

// Subscribe registers a change callback for a key and returns its
// cancel function. Callbacks run outside the cache lock.
func (c *RelationCache) Subscribe(key RelationKey, fn func(RelationState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(RelationState))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[key][id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[key], id)
	}
}

// beginToggle applies the optimistic flip for one click: the displayed
// state switches to the target implied by the current state before any
// network I/O happens. Returns the pre-click state and the target.
func (c *RelationCache) beginToggle(key RelationKey) (pre RelationState, target bool) {
	c.mu.Lock()
	e := c.entry(key)
	pre = *e
	pre.Pending = 0
	target = !e.Active
	e.Active = target
	if target {
		e.Count++
	} else if e.Count > 0 {
		e.Count--
	}
	e.Pending++
	state, fns := c.snapshotLocked(key)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
	return pre, target
}

// finishRollback restores the exact pre-click state after a failed
// request.
func (c *RelationCache) finishRollback(key RelationKey, pre RelationState) {
	c.mu.Lock()
	e := c.entry(key)
	e.Pending--
	e.Active = pre.Active
	e.Count = pre.Count
	state, fns := c.snapshotLocked(key)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// finishReconcile adopts the server's canonical result. When the server
// agrees with the optimistic target nothing visibly changes; when it
// disagrees (lost race, stale state) the server wins and the optimistic
// count adjustment is reverted unless the server supplied its own count.
func (c *RelationCache) finishReconcile(key RelationKey, pre RelationState, target, active bool, count int64, hasCount bool) {
	c.mu.Lock()
	e := c.entry(key)
	e.Pending--
	e.Active = active
	if hasCount {
		e.Count = count
	} else if active != target {
		e.Count = pre.Count
	}
	state, fns := c.snapshotLocked(key)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// finishDetached settles the in-flight counter for a response whose
// controller was closed before it arrived; the displayed state is left
// untouched.
func (c *RelationCache) finishDetached(key RelationKey) {
	c.mu.Lock()
	e := c.entry(key)
	e.Pending--
	state, fns := c.snapshotLocked(key)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (c *RelationCache) entry(key RelationKey) *RelationState {
	e, ok := c.entries[key]
	if !ok {
		e = &RelationState{}
		c.entries[key] = e
	}
	return e
}

func (c *RelationCache) snapshotLocked(key RelationKey) (RelationState, []func(RelationState)) {
	state := *c.entries[key]
	fns := make([]func(RelationState), 0, len(c.subs[key]))
	for _, fn := range c.subs[key] {
		fns = append(fns, fn)
	}
	return state, fns
}
