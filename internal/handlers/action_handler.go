package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/inkwell-blog/backend/internal/events"
	"github.com/inkwell-blog/backend/internal/models"
	"github.com/inkwell-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActionHandler is the single dispatch point for post interactions.
// Every mutation (like, comment, comment like, reaction) arrives as a
// tagged action payload on one endpoint and is routed to the matching
// toggle or creation path after shared auth and visibility checks.
type ActionHandler struct {
	postRepository        repositories.PostRepository
	userRepository        repositories.UserRepository
	commentRepository     repositories.CommentRepository
	likeRepository        repositories.LikeRepository
	commentLikeRepository repositories.CommentLikeRepository
	reactionRepository    repositories.ReactionRepository
	notificationRepo      repositories.NotificationRepository
	publisher             *events.Publisher
	logger                *zap.Logger
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	reactionRepo repositories.ReactionRepository,
	notificationRepo repositories.NotificationRepository,
	publisher *events.Publisher,
	logger *zap.Logger,
) *ActionHandler {
	return &ActionHandler{
		postRepository:        postRepo,
		userRepository:        userRepo,
		commentRepository:     commentRepo,
		likeRepository:        likeRepo,
		commentLikeRepository: commentLikeRepo,
		reactionRepository:    reactionRepo,
		notificationRepo:      notificationRepo,
		publisher:             publisher,
		logger:                logger,
	}
}

// RegisterActionRoutes registers the post actions endpoint
func (h *ActionHandler) RegisterActionRoutes(g *echo.Group) {
	g.POST("/posts/:slug/actions", h.Dispatch)
}

// Dispatch authenticates, validates the tagged payload, resolves the
// post behind the slug and routes to the matching action. Handler-level
// failures surface as a generic 500; internal detail is never echoed.
func (h *ActionHandler) Dispatch(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok || userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	var req models.ActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	// Per-variant shape validation, before any lookup.
	switch req.Action {
	case models.ActionLike:
		// No payload beyond the tag.
	case models.ActionComment:
		req.Content = strings.TrimSpace(req.Content)
		if err := c.Validate(models.CommentActionPayload{Content: req.Content}); err != nil {
			return err
		}
	case models.ActionLikeComment:
		if err := c.Validate(models.CommentLikeActionPayload{CommentID: req.CommentID}); err != nil {
			return err
		}
	case models.ActionReaction:
		if err := c.Validate(models.ReactionActionPayload{ReactionID: req.ReactionID}); err != nil {
			return err
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown action")
	}

	post, err := h.postRepository.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return h.internalError(c, err)
	}
	// Unpublished posts are invisible to everyone but their owner.
	if !post.VisibleTo(userID) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	switch req.Action {
	case models.ActionLike:
		return h.toggleLike(c, post, userID)
	case models.ActionComment:
		return h.createComment(c, post, userID, req.Content)
	case models.ActionLikeComment:
		return h.toggleCommentLike(c, post, userID, req.CommentID)
	default:
		return h.toggleReaction(c, post, userID, req.ReactionID)
	}
}

func (h *ActionHandler) toggleLike(c echo.Context, post *models.Post, userID uint) error {
	if post.AuthorID == userID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot like your own post")
	}

	postID := post.ID.Hex()
	liked, err := h.likeRepository.ToggleLike(postID, userID)
	if err != nil {
		return h.internalError(c, err)
	}
	total, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return h.internalError(c, err)
	}

	if liked {
		h.notify(&models.Notification{
			Type:        "like",
			ActorID:     userID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			TargetType:  "post",
			Message:     "liked your post",
		})
	}
	h.publish(events.SubjectPostLiked, events.InteractionEvent{
		PostID: postID, ActorID: userID, Active: liked,
	})

	return c.JSON(http.StatusOK, models.LikeResult{Liked: liked, TotalLikes: total})
}

func (h *ActionHandler) createComment(c echo.Context, post *models.Post, userID uint, content string) error {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return h.internalError(c, err)
	}

	comment := &models.Comment{
		ID:      uuid.New(),
		PostID:  post.ID.Hex(),
		UserID:  userID,
		Content: content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return h.internalError(c, err)
	}

	if post.AuthorID != userID {
		h.notify(&models.Notification{
			Type:        "comment",
			ActorID:     userID,
			RecipientID: post.AuthorID,
			TargetID:    comment.ID.String(),
			TargetType:  "comment",
			Message:     "commented on your post",
		})
	}
	h.publish(events.SubjectPostCommented, events.InteractionEvent{
		PostID: post.ID.Hex(), ActorID: userID, TargetID: comment.ID.String(), Active: true,
	})

	// The response carries the denormalized author fields so the client
	// can render the new comment without a second round-trip.
	return c.JSON(http.StatusOK, models.CommentResponse{
		Comment:         *comment,
		AuthorUsername:  user.Username,
		AuthorAvatarURL: user.AvatarURL,
	})
}

func (h *ActionHandler) toggleCommentLike(c echo.Context, post *models.Post, userID uint, rawID string) error {
	commentID, err := uuid.Parse(rawID)
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
	// A comment from another post is as good as absent.
	if comment.PostID != post.ID.Hex() {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	liked, err := h.commentLikeRepository.ToggleCommentLike(commentID, userID)
	if err != nil {
		return h.internalError(c, err)
	}

	if liked && comment.UserID != userID {
		h.notify(&models.Notification{
			Type:        "comment_like",
			ActorID:     userID,
			RecipientID: comment.UserID,
			TargetID:    comment.ID.String(),
			TargetType:  "comment",
			Message:     "liked your comment",
		})
	}
	h.publish(events.SubjectCommentLiked, events.InteractionEvent{
		PostID: post.ID.Hex(), ActorID: userID, TargetID: comment.ID.String(), Active: liked,
	})

	return c.JSON(http.StatusOK, models.CommentLikeResult{Liked: liked})
}

func (h *ActionHandler) toggleReaction(c echo.Context, post *models.Post, userID uint, reactionID string) error {
	postID := post.ID.Hex()
	reacted, err := h.reactionRepository.ToggleReaction(postID, userID, reactionID)
	if err != nil {
		return h.internalError(c, err)
	}

	if reacted && post.AuthorID != userID {
		h.notify(&models.Notification{
			Type:        "reaction",
			ActorID:     userID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			TargetType:  "post",
			Message:     "reacted to your post",
		})
	}
	h.publish(events.SubjectPostReacted, events.InteractionEvent{
		PostID: postID, ActorID: userID, TargetID: reactionID, Active: reacted,
	})

	return c.JSON(http.StatusOK, models.ReactionResult{Reacted: reacted})
}

// internalError logs the real failure and returns the generic 500.
func (h *ActionHandler) internalError(c echo.Context, err error) error {
	h.logger.Error("action failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// notify inserts a notification row for the recipient. Fire-and-forget:
// a failed insert is logged and never surfaces to the caller.
func (h *ActionHandler) notify(n *models.Notification) {
	if n.RecipientID == n.ActorID {
		return
	}
	go func() {
		if err := h.notificationRepo.CreateNotification(n); err != nil {
			h.logger.Warn("failed to create notification", zap.Error(err))
		}
	}()
}

// publish emits an interaction event. Fire-and-forget as above.
func (h *ActionHandler) publish(subject string, evt events.InteractionEvent) {
	go func() {
		if err := h.publisher.Publish(context.Background(), subject, evt); err != nil {
			h.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
		}
	}()
}
