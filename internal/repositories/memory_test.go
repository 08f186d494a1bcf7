package repositories

import (
	"testing"

	"github.com/google/uuid"
)

// Toggling the same key twice in settled succession must return the
// relation to its original state and count, for every relation kind.

func TestLikeTogglePairRestoresState(t *testing.T) {
	repo := NewMemoryLikeRepository()

	liked, err := repo.ToggleLike("post-1", 7)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	count, _ := repo.GetLikesCountByPostID("post-1")
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	liked, err = repo.ToggleLike("post-1", 7)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	count, _ = repo.GetLikesCountByPostID("post-1")
	if count != 0 {
		t.Fatalf("expected count 0, got %d", count)
	}
}

func TestLikeCountScopedToPost(t *testing.T) {
	repo := NewMemoryLikeRepository()
	repo.ToggleLike("post-1", 1)
	repo.ToggleLike("post-1", 2)
	repo.ToggleLike("post-2", 1)

	count, _ := repo.GetLikesCountByPostID("post-1")
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}

func TestCommentLikeTogglePair(t *testing.T) {
	repo := NewMemoryCommentLikeRepository()
	id := uuid.New()

	liked, _ := repo.ToggleCommentLike(id, 3)
	if !liked {
		t.Fatal("expected liked after first toggle")
	}
	liked, _ = repo.ToggleCommentLike(id, 3)
	if liked {
		t.Fatal("expected unliked after second toggle")
	}
	count, _ := repo.GetLikesCountByCommentID(id)
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestReactionsAreMultiValuedPerUser(t *testing.T) {
	repo := NewMemoryReactionRepository()

	repo.ToggleReaction("post-1", 5, "fire")
	repo.ToggleReaction("post-1", 5, "clap")

	mine, _ := repo.GetUserReactions("post-1", 5)
	if len(mine) != 2 {
		t.Fatalf("expected 2 reactions, got %v", mine)
	}

	// Toggling one type off leaves the other intact.
	reacted, _ := repo.ToggleReaction("post-1", 5, "fire")
	if reacted {
		t.Fatal("expected fire toggled off")
	}
	mine, _ = repo.GetUserReactions("post-1", 5)
	if len(mine) != 1 || mine[0] != "clap" {
		t.Fatalf("expected [clap], got %v", mine)
	}
}

func TestReactionCountsGroupedByType(t *testing.T) {
	repo := NewMemoryReactionRepository()
	repo.ToggleReaction("post-1", 1, "fire")
	repo.ToggleReaction("post-1", 2, "fire")
	repo.ToggleReaction("post-1", 1, "clap")

	counts, _ := repo.GetReactionCountsByPostID("post-1")
	if len(counts) != 2 {
		t.Fatalf("expected 2 groups, got %v", counts)
	}
	// Sorted by reaction ID.
	if counts[0].ReactionID != "clap" || counts[0].Count != 1 {
		t.Fatalf("unexpected first group: %+v", counts[0])
	}
	if counts[1].ReactionID != "fire" || counts[1].Count != 2 {
		t.Fatalf("unexpected second group: %+v", counts[1])
	}
}
