package repositories

import (
	"github.com/inkwell-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	ToggleReaction(postID string, userID uint, reactionID string) (bool, error)
	GetUserReactions(postID string, userID uint) ([]string, error)
	GetReactionCountsByPostID(postID string) ([]models.ReactionCount, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// ToggleReaction flips the (post, user, reaction) membership and returns
// the new state. Reactions are multi-valued per user, the unique index
// covers the full triple.
func (r *PostgresReactionRepository) ToggleReaction(postID string, userID uint, reactionID string) (bool, error) {
	reaction := models.Reaction{PostID: postID, UserID: userID, ReactionID: reactionID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	del := r.db.Where("post_id = ? AND user_id = ? AND reaction_id = ?", postID, userID, reactionID).Delete(&models.Reaction{})
	if del.Error != nil {
		return false, del.Error
	}
	return false, nil
}

// GetUserReactions retrieves the reaction types a user holds on a post
func (r *PostgresReactionRepository) GetUserReactions(postID string, userID uint) ([]string, error) {
	var reactionIDs []string
	err := r.db.Model(&models.Reaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("reaction_id").
		Pluck("reaction_id", &reactionIDs).Error
	if err != nil {
		return nil, err
	}
	return reactionIDs, nil
}

// GetReactionCountsByPostID tallies reactions on a post per type
func (r *PostgresReactionRepository) GetReactionCountsByPostID(postID string) ([]models.ReactionCount, error) {
	var counts []models.ReactionCount
	err := r.db.Model(&models.Reaction{}).
		Select("reaction_id, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("reaction_id").
		Order("reaction_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
