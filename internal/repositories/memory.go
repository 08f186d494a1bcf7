package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-blog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory implementations of the repository interfaces, used by tests
// and local development. They mirror the uniqueness constraints of the
// real stores: relation maps are keyed exactly like the unique indexes.

type likeKey struct {
	postID string
	userID uint
}

// MemoryLikeRepository is an in-memory LikeRepository.
type MemoryLikeRepository struct {
	mu    sync.Mutex
	likes map[likeKey]struct{}
}

func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: make(map[likeKey]struct{})}
}

func (r *MemoryLikeRepository) ToggleLike(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{postID, userID}
	if _, ok := r.likes[k]; ok {
		delete(r.likes, k)
		return false, nil
	}
	r.likes[k] = struct{}{}
	return true, nil
}

func (r *MemoryLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for k := range r.likes {
		if k.postID == postID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[likeKey{postID, userID}]
	return ok, nil
}

type commentLikeKey struct {
	commentID uuid.UUID
	userID    uint
}

// MemoryCommentLikeRepository is an in-memory CommentLikeRepository.
type MemoryCommentLikeRepository struct {
	mu    sync.Mutex
	likes map[commentLikeKey]struct{}
}

func NewMemoryCommentLikeRepository() *MemoryCommentLikeRepository {
	return &MemoryCommentLikeRepository{likes: make(map[commentLikeKey]struct{})}
}

func (r *MemoryCommentLikeRepository) ToggleCommentLike(commentID uuid.UUID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := commentLikeKey{commentID, userID}
	if _, ok := r.likes[k]; ok {
		delete(r.likes, k)
		return false, nil
	}
	r.likes[k] = struct{}{}
	return true, nil
}

func (r *MemoryCommentLikeRepository) GetLikesCountByCommentID(commentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for k := range r.likes {
		if k.commentID == commentID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryCommentLikeRepository) HasUserLikedComment(commentID uuid.UUID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[commentLikeKey{commentID, userID}]
	return ok, nil
}

type reactionKey struct {
	postID     string
	userID     uint
	reactionID string
}

// MemoryReactionRepository is an in-memory ReactionRepository.
type MemoryReactionRepository struct {
	mu        sync.Mutex
	reactions map[reactionKey]struct{}
}

func NewMemoryReactionRepository() *MemoryReactionRepository {
	return &MemoryReactionRepository{reactions: make(map[reactionKey]struct{})}
}

func (r *MemoryReactionRepository) ToggleReaction(postID string, userID uint, reactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := reactionKey{postID, userID, reactionID}
	if _, ok := r.reactions[k]; ok {
		delete(r.reactions, k)
		return false, nil
	}
	r.reactions[k] = struct{}{}
	return true, nil
}

func (r *MemoryReactionRepository) GetUserReactions(postID string, userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reactionIDs []string
	for k := range r.reactions {
		if k.postID == postID && k.userID == userID {
			reactionIDs = append(reactionIDs, k.reactionID)
		}
	}
	sort.Strings(reactionIDs)
	return reactionIDs, nil
}

func (r *MemoryReactionRepository) GetReactionCountsByPostID(postID string) ([]models.ReactionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tally := make(map[string]int64)
	for k := range r.reactions {
		if k.postID == postID {
			tally[k.reactionID]++
		}
	}
	counts := make([]models.ReactionCount, 0, len(tally))
	for id, n := range tally {
		counts = append(counts, models.ReactionCount{ReactionID: id, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].ReactionID < counts[j].ReactionID })
	return counts, nil
}

// MemoryCommentRepository is an in-memory CommentRepository.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[uuid.UUID]models.Comment
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[uuid.UUID]models.Comment)}
}

func (r *MemoryCommentRepository) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
		comment.UpdatedAt = comment.CreatedAt
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r *MemoryCommentRepository) GetCommentByID(id uuid.UUID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *MemoryCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryCommentRepository) GetCommentsCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryCommentRepository) DeleteComment(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

// MemoryUserRepository is an in-memory UserRepository.
type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uint]models.User), nextID: 1}
}

func (r *MemoryUserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// MemoryPostRepository is an in-memory PostRepository.
type MemoryPostRepository struct {
	mu    sync.Mutex
	posts map[string]models.Post // keyed by slug
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]models.Post)}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
		post.UpdatedAt = post.CreatedAt
	}
	r.posts[post.Slug] = *post
	return nil
}

func (r *MemoryPostRepository) GetPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[slug]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &p, nil
}

func (r *MemoryPostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return &p, nil
		}
	}
	return nil, ErrPostNotFound
}

// MemoryNotificationRepository is an in-memory NotificationRepository.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []models.Notification
	nextID        uint
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{nextID: 1}
}

func (r *MemoryNotificationRepository) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID
	r.nextID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *MemoryNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *MemoryNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) MarkAsRead(notificationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) MarkAllAsRead(recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}
