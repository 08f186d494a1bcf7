package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/inkwell-blog/backend/internal/events"
	"github.com/inkwell-blog/backend/internal/middleware"
	"github.com/inkwell-blog/backend/internal/models"
	"github.com/inkwell-blog/backend/internal/repositories"
	"github.com/inkwell-blog/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type testEnv struct {
	e            *echo.Echo
	users        *repositories.MemoryUserRepository
	posts        *repositories.MemoryPostRepository
	comments     *repositories.MemoryCommentRepository
	likes        *repositories.MemoryLikeRepository
	commentLikes *repositories.MemoryCommentLikeRepository
	reactions    *repositories.MemoryReactionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		e:            echo.New(),
		users:        repositories.NewMemoryUserRepository(),
		posts:        repositories.NewMemoryPostRepository(),
		comments:     repositories.NewMemoryCommentRepository(),
		likes:        repositories.NewMemoryLikeRepository(),
		commentLikes: repositories.NewMemoryCommentLikeRepository(),
		reactions:    repositories.NewMemoryReactionRepository(),
	}
	env.e.Validator = validators.NewValidator()

	logger := zap.NewNop()
	publisher, err := events.New("", logger)
	if err != nil {
		t.Fatalf("events.New: %v", err)
	}

	api := env.e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	actionHandler := NewActionHandler(env.posts, env.users, env.comments, env.likes, env.commentLikes, env.reactions,
		repositories.NewMemoryNotificationRepository(), publisher, logger)
	actionHandler.RegisterActionRoutes(api)

	commentHandler := NewCommentHandler(env.comments, env.posts, env.users, env.commentLikes, logger)
	commentHandler.RegisterCommentRoutes(api)

	postHandler := NewPostHandler(env.posts, env.likes, env.comments, env.reactions, logger)
	postHandler.RegisterPostRoutes(api)

	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", AvatarURL: "https://cdn.example.com/" + username + ".png"}
	if err := env.users.CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (env *testEnv) createPost(t *testing.T, slug string, authorID uint, published bool) *models.Post {
	t.Helper()
	post := &models.Post{Slug: slug, AuthorID: authorID, Title: slug, Published: published}
	if err := env.posts.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JwtCustomClaims{UserID: userID})
	signed, err := token.SignedString([]byte("supersecretjwtkey"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (env *testEnv) postAction(t *testing.T, slug, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/"+slug+"/actions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.e.ServeHTTP(rr, req)
	return rr
}

func TestDispatch_AnonymousUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postAction(t, "any-slug", "", `{"action":"like"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDispatch_GarbageTokenUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postAction(t, "any-slug", "not-a-token", `{"action":"like"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestDispatch_UnknownAction(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	rr := env.postAction(t, "some-post", signToken(t, user.ID), `{"action":"boost"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDispatch_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	rr := env.postAction(t, "some-post", signToken(t, user.ID), `{"action":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDispatch_PostNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	rr := env.postAction(t, "no-such-post", signToken(t, user.ID), `{"action":"like"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDispatch_UnpublishedInvisibleToOthers(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	stranger := env.createUser(t, "stranger")
	env.createPost(t, "draft-post", owner.ID, false)

	for _, body := range []string{
		`{"action":"like"}`,
		`{"action":"comment","content":"hi"}`,
		`{"action":"reaction","reactionId":"fire"}`,
	} {
		rr := env.postAction(t, "draft-post", signToken(t, stranger.ID), body)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d: %s", body, rr.Code, rr.Body.String())
		}
	}
}

func TestDispatch_UnpublishedVisibleToOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	env.createPost(t, "draft-post", owner.ID, false)

	rr := env.postAction(t, "draft-post", signToken(t, owner.ID), `{"action":"comment","content":"note to self"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLike_SelfLikeForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	env.createPost(t, "my-post", owner.ID, true)

	rr := env.postAction(t, "my-post", signToken(t, owner.ID), `{"action":"like"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Cannot like your own post") {
		t.Fatalf("expected self-like message, got %s", rr.Body.String())
	}
}

func TestLike_TogglePair(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)
	token := signToken(t, reader.ID)

	rr := env.postAction(t, "hello-world", token, `{"action":"like"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first models.LikeResult
	if err := json.NewDecoder(rr.Body).Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !first.Liked || first.TotalLikes != 1 {
		t.Fatalf("expected liked=true total=1, got %+v", first)
	}

	rr = env.postAction(t, "hello-world", token, `{"action":"like"}`)
	var second models.LikeResult
	if err := json.NewDecoder(rr.Body).Decode(&second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Liked || second.TotalLikes != 0 {
		t.Fatalf("expected liked=false total=0 after repeat, got %+v", second)
	}
}

func TestComment_EmptyContentRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	for _, body := range []string{
		`{"action":"comment","content":""}`,
		`{"action":"comment","content":"   "}`,
		`{"action":"comment"}`,
	} {
		rr := env.postAction(t, "hello-world", signToken(t, reader.ID), body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rr.Code)
		}
	}
}

func TestComment_CreatedWithAuthorFields(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	rr := env.postAction(t, "hello-world", signToken(t, reader.ID), `{"action":"comment","content":"  great read  "}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.CommentResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Content != "great read" {
		t.Fatalf("expected trimmed content, got %q", resp.Content)
	}
	if resp.AuthorUsername != "reader" {
		t.Fatalf("expected author username 'reader', got %q", resp.AuthorUsername)
	}
	if resp.AuthorAvatarURL == "" {
		t.Fatal("expected denormalized avatar URL")
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected a comment ID")
	}
}

func TestCommentLike_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	rr := env.postAction(t, "hello-world", signToken(t, reader.ID), `{"action":"like_comment","commentId":"nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCommentLike_UnknownComment(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	rr := env.postAction(t, "hello-world", signToken(t, reader.ID),
		`{"action":"like_comment","commentId":"`+uuid.NewString()+`"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCommentLike_CommentFromOtherPostNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "post-a", owner.ID, true)
	postB := env.createPost(t, "post-b", owner.ID, true)

	comment := &models.Comment{PostID: postB.ID.Hex(), UserID: owner.ID, Content: "on post b"}
	if err := env.comments.CreateComment(comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	rr := env.postAction(t, "post-a", signToken(t, reader.ID),
		`{"action":"like_comment","commentId":"`+comment.ID.String()+`"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCommentLike_TogglePair(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	post := env.createPost(t, "hello-world", owner.ID, true)

	comment := &models.Comment{PostID: post.ID.Hex(), UserID: owner.ID, Content: "first"}
	if err := env.comments.CreateComment(comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	body := `{"action":"like_comment","commentId":"` + comment.ID.String() + `"}`
	token := signToken(t, reader.ID)

	rr := env.postAction(t, "hello-world", token, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first models.CommentLikeResult
	if err := json.NewDecoder(rr.Body).Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !first.Liked {
		t.Fatalf("expected liked=true, got %+v", first)
	}

	rr = env.postAction(t, "hello-world", token, body)
	var second models.CommentLikeResult
	if err := json.NewDecoder(rr.Body).Decode(&second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Liked {
		t.Fatalf("expected liked=false after repeat, got %+v", second)
	}
}

func TestReaction_TogglePair(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)
	token := signToken(t, reader.ID)

	rr := env.postAction(t, "hello-world", token, `{"action":"reaction","reactionId":"fire"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first models.ReactionResult
	if err := json.NewDecoder(rr.Body).Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !first.Reacted {
		t.Fatalf("expected reacted=true, got %+v", first)
	}

	rr = env.postAction(t, "hello-world", token, `{"action":"reaction","reactionId":"fire"}`)
	var second models.ReactionResult
	if err := json.NewDecoder(rr.Body).Decode(&second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Reacted {
		t.Fatalf("expected reacted=false after repeat, got %+v", second)
	}
}

func TestReaction_DistinctTypesCoexist(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	post := env.createPost(t, "hello-world", owner.ID, true)
	token := signToken(t, reader.ID)

	for _, reaction := range []string{"fire", "clap"} {
		rr := env.postAction(t, "hello-world", token, `{"action":"reaction","reactionId":"`+reaction+`"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", reaction, rr.Code)
		}
	}

	mine, err := env.reactions.GetUserReactions(post.ID.Hex(), reader.ID)
	if err != nil {
		t.Fatalf("get reactions: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 distinct reactions, got %v", mine)
	}
}

func TestReaction_MissingTypeRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	rr := env.postAction(t, "hello-world", signToken(t, reader.ID), `{"action":"reaction"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// failingLikeRepo simulates an unreachable relation store.
type failingLikeRepo struct{}

func (failingLikeRepo) ToggleLike(string, uint) (bool, error) {
	return false, errors.New("connection refused")
}
func (failingLikeRepo) GetLikesCountByPostID(string) (int64, error) {
	return 0, errors.New("connection refused")
}
func (failingLikeRepo) HasUserLikedPost(string, uint) (bool, error) {
	return false, errors.New("connection refused")
}

func TestDispatch_StoreFailureIsGeneric500(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	reader := env.createUser(t, "reader")
	env.createPost(t, "hello-world", owner.ID, true)

	logger := zap.NewNop()
	publisher, _ := events.New("", logger)
	broken := NewActionHandler(env.posts, env.users, env.comments, failingLikeRepo{}, env.commentLikes, env.reactions,
		repositories.NewMemoryNotificationRepository(), publisher, logger)

	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	broken.RegisterActionRoutes(api)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/hello-world/actions", strings.NewReader(`{"action":"like"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, reader.ID))
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Fatalf("internal detail leaked to caller: %s", rr.Body.String())
	}
}
