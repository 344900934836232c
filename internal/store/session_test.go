package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository_CreateAndFinish(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	started := time.Now().Add(-time.Minute)
	session, err := repo.Create(started)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.ID == "" {
		t.Fatal("Create() returned empty ID")
	}

	// An in-progress session reads back with zero score and no end time.
	got, err := repo.GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.EndedAt.IsZero() {
		t.Errorf("in-progress session has EndedAt = %v, want zero", got.EndedAt)
	}

	ended := time.Now()
	if err := repo.Finish(session.ID, ended, 17, 2040); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err = repo.GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() after Finish error = %v", err)
	}
	if got.Score != 17 {
		t.Errorf("score = %d, want 17", got.Score)
	}
	if got.DurationTicks != 2040 {
		t.Errorf("duration = %d, want 2040", got.DurationTicks)
	}
	if got.EndedAt.IsZero() {
		t.Error("finished session has zero EndedAt")
	}
}

func TestSessionRepository_FinishUnknownID(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().Finish("no-such-id", time.Now(), 1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_ListAndBest(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	base := time.Now().Add(-time.Hour)
	scores := []int{5, 30, 12}
	for i, score := range scores {
		started := base.Add(time.Duration(i) * time.Minute)
		session, err := repo.Create(started)
		if err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
		if err := repo.Finish(session.ID, started.Add(30*time.Second), score, int64(score)*60); err != nil {
			t.Fatalf("Finish(%d) error = %v", i, err)
		}
	}

	// One unfinished session: listed, but excluded from the leaderboard.
	if _, err := repo.Create(base.Add(time.Hour)); err != nil {
		t.Fatalf("Create(in-progress) error = %v", err)
	}

	list, err := repo.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 4 {
		t.Errorf("List() returned %d sessions, want 4", len(list))
	}
	// Newest first.
	if !list[0].EndedAt.IsZero() {
		t.Error("List() first entry should be the newest (in-progress) session")
	}

	best, err := repo.Best(2)
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("Best() returned %d sessions, want 2", len(best))
	}
	if best[0].Score != 30 || best[1].Score != 12 {
		t.Errorf("Best() scores = [%d, %d], want [30, 12]", best[0].Score, best[1].Score)
	}

	bestScore, err := repo.BestScore()
	if err != nil {
		t.Fatalf("BestScore() error = %v", err)
	}
	if bestScore != 30 {
		t.Errorf("BestScore() = %d, want 30", bestScore)
	}
}

func TestSessionRepository_BestScoreEmpty(t *testing.T) {
	s := newTestStore(t)

	score, err := s.Sessions().BestScore()
	if err != nil {
		t.Fatalf("BestScore() error = %v", err)
	}
	if score != 0 {
		t.Errorf("BestScore() on empty table = %d, want 0", score)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("camera_id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("camera_id", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := repo.Get("camera_id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "1" {
		t.Errorf("Get() = %q, want %q", value, "1")
	}

	// Set replaces an existing value.
	if err := repo.Set("camera_id", "2"); err != nil {
		t.Fatalf("Set(replace) error = %v", err)
	}
	value, _ = repo.Get("camera_id")
	if value != "2" {
		t.Errorf("Get() after replace = %q, want %q", value, "2")
	}
}
