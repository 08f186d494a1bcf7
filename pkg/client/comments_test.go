package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func commentsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}

func TestComments_SubmitIsNotOptimistic(t *testing.T) {
	release := make(chan struct{})
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Comment{
			ID:             "c-1",
			Content:        "hello",
			AuthorUsername: "alice",
		})
	})
	defer srv.Close()

	cache := NewRelationCache()
	cc := NewCommentsController(NewClient(srv.URL, "token", nil), cache, "post-1")
	cc.SetDraft("hello")

	done := make(chan error, 1)
	go func() { done <- cc.Submit(context.Background()) }()

	// While in flight: affordance disabled, nothing rendered speculatively.
	waitFor(t, func() bool { return cc.Submitting() })
	if got := cc.Comments(); len(got) != 0 {
		t.Fatalf("expected no speculative comment, got %d", len(got))
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}

	got := cc.Comments()
	if len(got) != 1 || got[0].AuthorUsername != "alice" {
		t.Fatalf("expected server comment prepended, got %+v", got)
	}
	if cc.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", cc.Draft())
	}
}

func TestComments_SubmitFailureKeepsDraft(t *testing.T) {
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
	})
	defer srv.Close()

	cc := NewCommentsController(NewClient(srv.URL, "token", nil), NewRelationCache(), "post-1")
	cc.SetDraft("my hot take")

	if err := cc.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if cc.Draft() != "my hot take" {
		t.Fatalf("expected draft retained, got %q", cc.Draft())
	}
	if len(cc.Comments()) != 0 {
		t.Fatal("expected no partial append")
	}
	if cc.Notice() == "" {
		t.Fatal("expected a transient notice")
	}
	// The notice is one-shot.
	if cc.Notice() != "" {
		t.Fatal("expected notice cleared after read")
	}
}

func TestComments_SubmitGuards(t *testing.T) {
	release := make(chan struct{})
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Comment{ID: "c-1"})
	})
	defer srv.Close()

	cc := NewCommentsController(NewClient(srv.URL, "token", nil), NewRelationCache(), "post-1")

	if err := cc.Submit(context.Background()); err != ErrEmptyDraft {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}

	cc.SetDraft("first")
	done := make(chan error, 1)
	go func() { done <- cc.Submit(context.Background()) }()
	waitFor(t, func() bool { return cc.Submitting() })

	if err := cc.Submit(context.Background()); err != ErrSubmitInFlight {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestComments_LoadSeedsRelationCache(t *testing.T) {
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Comment{
			{ID: "c-1", Content: "first", LikesCount: 3, LikedByMe: true},
			{ID: "c-2", Content: "second", LikesCount: 0, LikedByMe: false},
		})
	})
	defer srv.Close()

	cache := NewRelationCache()
	cc := NewCommentsController(NewClient(srv.URL, "token", nil), cache, "post-1")
	if err := cc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if s := cache.Get(CommentLikeKey("c-1")); !s.Active || s.Count != 3 {
		t.Fatalf("expected c-1 seeded (true, 3), got %+v", s)
	}
	if s := cache.Get(CommentLikeKey("c-2")); s.Active || s.Count != 0 {
		t.Fatalf("expected c-2 seeded (false, 0), got %+v", s)
	}
}

func TestComments_DeleteRollsBackOnFailure(t *testing.T) {
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Comment{
			{ID: "c-1", Content: "first"},
			{ID: "c-2", Content: "second"},
			{ID: "c-3", Content: "third"},
		})
	})
	defer srv.Close()

	cc := NewCommentsController(NewClient(srv.URL, "token", nil), NewRelationCache(), "post-1")
	if err := cc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := cc.Delete(context.Background(), "c-2"); err == nil {
		t.Fatal("expected error")
	}

	got := cc.Comments()
	if len(got) != 3 || got[1].ID != "c-2" {
		t.Fatalf("expected c-2 restored in place, got %+v", got)
	}
}

func TestComments_DeleteRemovesOnSuccess(t *testing.T) {
	srv := commentsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Comment{
			{ID: "c-1", Content: "first"},
			{ID: "c-2", Content: "second"},
		})
	})
	defer srv.Close()

	cc := NewCommentsController(NewClient(srv.URL, "token", nil), NewRelationCache(), "post-1")
	if err := cc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cc.Delete(context.Background(), "c-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := cc.Comments()
	if len(got) != 1 || got[0].ID != "c-2" {
		t.Fatalf("expected only c-2 left, got %+v", got)
	}
}
