package repositories

import (
	"github.com/google/uuid"
	"github.com/inkwell-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines the interface for comment-like data operations
type CommentLikeRepository interface {
	ToggleCommentLike(commentID uuid.UUID, userID uint) (bool, error)
	GetLikesCountByCommentID(commentID uuid.UUID) (int64, error)
	HasUserLikedComment(commentID uuid.UUID, userID uint) (bool, error)
}

// PostgresCommentLikeRepository implements CommentLikeRepository for PostgreSQL
type PostgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a new PostgresCommentLikeRepository
func NewPostgresCommentLikeRepository(db *gorm.DB) *PostgresCommentLikeRepository {
	return &PostgresCommentLikeRepository{db: db}
}

// ToggleCommentLike flips the (comment, user) like membership and
// returns the new state. Same conflict-driven flip as post likes.
func (r *PostgresCommentLikeRepository) ToggleCommentLike(commentID uuid.UUID, userID uint) (bool, error) {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	del := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if del.Error != nil {
		return false, del.Error
	}
	return false, nil
}

// GetLikesCountByCommentID retrieves the count of likes for a specific comment
func (r *PostgresCommentLikeRepository) GetLikesCountByCommentID(commentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLikedComment checks if a user has liked a specific comment
func (r *PostgresCommentLikeRepository) HasUserLikedComment(commentID uuid.UUID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
