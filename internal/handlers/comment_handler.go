package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/inkwell-blog/backend/internal/models"
	"github.com/inkwell-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentHandler serves the comment list for a post and the gated
// deletion endpoint. Comment creation goes through the actions
// dispatcher.
type CommentHandler struct {
	commentRepository     repositories.CommentRepository
	postRepository        repositories.PostRepository
	userRepository        repositories.UserRepository
	commentLikeRepository repositories.CommentLikeRepository
	logger                *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:     commentRepo,
		postRepository:        postRepo,
		userRepository:        userRepo,
		commentLikeRepository: commentLikeRepo,
		logger:                logger,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:slug/comments", h.GetCommentsForPost)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetCommentsForPost retrieves all comments for a post, each enriched
// with the author fields and the caller's like state.
func (h *CommentHandler) GetCommentsForPost(c echo.Context) error {
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

	comments, err := h.commentRepository.GetCommentsByPostID(post.ID.Hex())
	if err != nil {
		return h.internalError(c, err)
	}

	out := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		resp := models.CommentResponse{Comment: comment}
		if author, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			resp.AuthorUsername = author.Username
			resp.AuthorAvatarURL = author.AvatarURL
		}
		count, err := h.commentLikeRepository.GetLikesCountByCommentID(comment.ID)
		if err != nil {
			return h.internalError(c, err)
		}
		liked, err := h.commentLikeRepository.HasUserLikedComment(comment.ID, userID)
		if err != nil {
			return h.internalError(c, err)
		}
		resp.LikesCount = count
		resp.LikedByMe = liked
		out = append(out, resp)
	}

	return c.JSON(http.StatusOK, out)
}

// DeleteComment deletes a comment. Allowed for the comment's author and
// for the author of the post it belongs to.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok || userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return h.internalError(c, err)
	}

	if comment.UserID != userID {
		post, err := h.postRepository.GetPostByID(c.Request().Context(), comment.PostID)
		if err != nil {
			if err == repositories.ErrPostNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
			}
			return h.internalError(c, err)
		}
		if post.AuthorID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
		}
	}

	if err := h.commentRepository.DeleteComment(commentID); err != nil {
		return h.internalError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) internalError(c echo.Context, err error) error {
	h.logger.Error("comment request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
