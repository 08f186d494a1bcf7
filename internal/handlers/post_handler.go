package handlers

import (
	"net/http"

	"github.com/inkwell-blog/backend/internal/models"
	"github.com/inkwell-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler serves the read surface for a single post: the post
// itself plus the interaction summary the client seeds its shadow
// state from.
type PostHandler struct {
	postRepository     repositories.PostRepository
	likeRepository     repositories.LikeRepository
	commentRepository  repositories.CommentRepository
	reactionRepository repositories.ReactionRepository
	logger             *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	reactionRepo repositories.ReactionRepository,
	logger *zap.Logger,
) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		likeRepository:     likeRepo,
		commentRepository:  commentRepo,
		reactionRepository: reactionRepo,
		logger:             logger,
	}
}

// RegisterPostRoutes registers post read routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts/:slug", h.GetPostBySlug)
}

// GetPostBySlug retrieves a post with its interaction summary. The same
// visibility boundary applies: an unpublished post belonging to someone
// else is a 404.
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok || userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	post, err := h.postRepository.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return h.internalError(c, err)
	}
	if !post.VisibleTo(userID) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	postID := post.ID.Hex()
	likes, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return h.internalError(c, err)
	}
	likedByMe, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return h.internalError(c, err)
	}
	comments, err := h.commentRepository.GetCommentsCountByPostID(postID)
	if err != nil {
		return h.internalError(c, err)
	}
	myReactions, err := h.reactionRepository.GetUserReactions(postID, userID)
	if err != nil {
		return h.internalError(c, err)
	}
	reactions, err := h.reactionRepository.GetReactionCountsByPostID(postID)
	if err != nil {
		return h.internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.PostDetail{
		Post:          *post,
		LikesCount:    likes,
		CommentsCount: comments,
		LikedByMe:     likedByMe,
		MyReactions:   myReactions,
		Reactions:     reactions,
	})
}

func (h *PostHandler) internalError(c echo.Context, err error) error {
	h.logger.Error("post read failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
