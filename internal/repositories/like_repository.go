package repositories

import (
	"github.com/inkwell-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for post-like data operations
type LikeRepository interface {
	ToggleLike(postID string, userID uint) (bool, error)
	GetLikesCountByPostID(postID string) (int64, error)
	HasUserLikedPost(postID string, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike flips the (post, user) like membership and returns the new
// state. The flip leans on the unique index rather than a prior read:
// an insert with ON CONFLICT DO NOTHING either creates the row (now
// liked) or is a no-op because the row exists, in which case the row is
// deleted (now unliked). Interleaved toggles for the same key may still
// race on the delete half; callers reconcile against the returned state.
func (r *PostgresLikeRepository) ToggleLike(postID string, userID uint) (bool, error) {
	like := models.Like{PostID: postID, UserID: userID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	del := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if del.Error != nil {
		return false, del.Error
	}
	return false, nil
}

// GetLikesCountByPostID retrieves the count of likes for a specific post from PostgreSQL
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
