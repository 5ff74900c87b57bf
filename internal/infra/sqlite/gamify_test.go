package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/takato23/cocina/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesIdempotently(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open() error: %v", err)
	}
	db.Close()

	// Reopening the same directory reruns migrations against existing tables
	db, err = Open(dir)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	db.Close()
}

func TestIncrementStat(t *testing.T) {
	db := newTestDB(t)

	v, err := db.IncrementStat("ana", domain.StatRecipesCooked, 1)
	if err != nil {
		t.Fatalf("IncrementStat() error: %v", err)
	}
	if v != 1 {
		t.Errorf("value = %d, want 1", v)
	}

	v, err = db.IncrementStat("ana", domain.StatRecipesCooked, 4)
	if err != nil {
		t.Fatalf("IncrementStat() error: %v", err)
	}
	if v != 5 {
		t.Errorf("value = %d, want 5", v)
	}
}

func TestIncrementStat_RejectsNegativeDelta(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.IncrementStat("ana", domain.StatRecipesCooked, -1); !errors.Is(err, domain.ErrNegativeStat) {
		t.Errorf("err = %v, want ErrNegativeStat", err)
	}
}

func TestGetStat_MissingIsZero(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetStat("ana", domain.StatMealsPlanned)
	if err != nil {
		t.Fatalf("GetStat() error: %v", err)
	}
	if v != 0 {
		t.Errorf("missing stat = %d, want 0", v)
	}
}

func TestUserStats_SnapshotIncludesStreaks(t *testing.T) {
	db := newTestDB(t)

	db.IncrementStat("ana", domain.StatRecipesCooked, 3)
	db.SaveStreak(domain.Streak{
		UserID: "ana", Activity: "cooking", CurrentDays: 5, LongestDays: 5,
		LastDate: time.Now().UTC(),
	})

	stats, err := db.UserStats("ana")
	if err != nil {
		t.Fatalf("UserStats() error: %v", err)
	}
	if stats.Counters[domain.StatRecipesCooked] != 3 {
		t.Errorf("recipes_cooked = %d, want 3", stats.Counters[domain.StatRecipesCooked])
	}
	if stats.Streaks["cooking"] != 5 {
		t.Errorf("cooking streak = %d, want 5", stats.Streaks["cooking"])
	}
}

func TestUpsertProgress_CompletionIsSticky(t *testing.T) {
	db := newTestDB(t)
	completedAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	err := db.UpsertProgress(domain.AchievementProgress{
		UserID: "ana", AchievementID: "first_cook",
		Progress: 1, MaxProgress: 1,
		Completed: true, CompletedAt: completedAt,
	})
	if err != nil {
		t.Fatalf("UpsertProgress() error: %v", err)
	}

	// A later write claiming incomplete must not clear the flag or timestamp
	err = db.UpsertProgress(domain.AchievementProgress{
		UserID: "ana", AchievementID: "first_cook",
		Progress: 0, MaxProgress: 1,
		Completed: false,
	})
	if err != nil {
		t.Fatalf("UpsertProgress() error: %v", err)
	}

	p, err := db.GetProgress("ana", "first_cook")
	if err != nil {
		t.Fatalf("GetProgress() error: %v", err)
	}
	if p == nil || !p.Completed {
		t.Fatal("completion flag regressed")
	}
	if !p.CompletedAt.Equal(completedAt) {
		t.Errorf("completed_at = %v, want %v", p.CompletedAt, completedAt)
	}
}

func TestGetProgress_MissingIsNil(t *testing.T) {
	db := newTestDB(t)

	p, err := db.GetProgress("ana", "nope")
	if err != nil {
		t.Fatalf("GetProgress() error: %v", err)
	}
	if p != nil {
		t.Errorf("missing progress = %+v, want nil", p)
	}
}

func TestCompletedCount(t *testing.T) {
	db := newTestDB(t)

	db.UpsertProgress(domain.AchievementProgress{
		UserID: "ana", AchievementID: "a", Progress: 1, MaxProgress: 1,
		Completed: true, CompletedAt: time.Now(),
	})
	db.UpsertProgress(domain.AchievementProgress{
		UserID: "ana", AchievementID: "b", Progress: 1, MaxProgress: 2,
	})
	db.UpsertProgress(domain.AchievementProgress{
		UserID: "bruno", AchievementID: "a", Progress: 1, MaxProgress: 1,
		Completed: true, CompletedAt: time.Now(),
	})

	n, err := db.CompletedCount("ana")
	if err != nil {
		t.Fatalf("CompletedCount() error: %v", err)
	}
	if n != 1 {
		t.Errorf("completed = %d, want 1", n)
	}
}

func TestXPEvents_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	ev := domain.XPEvent{
		ID: "ev-1", UserID: "ana", Type: domain.EventRecipeCooked,
		Amount: 52, Points: 5,
		Meta:      domain.EventMeta{Difficulty: domain.DifficultyHard, StreakDays: 3},
		CreatedAt: time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := db.InsertXPEvent(ev); err != nil {
		t.Fatalf("InsertXPEvent() error: %v", err)
	}

	events, err := db.ListXPEvents("ana", 10)
	if err != nil {
		t.Fatalf("ListXPEvents() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	got := events[0]
	if got.Amount != 52 || got.Meta.Difficulty != domain.DifficultyHard || got.Meta.StreakDays != 3 {
		t.Errorf("round-tripped event = %+v", got)
	}
}

func TestUserLevel_DefaultsToLevelOne(t *testing.T) {
	db := newTestDB(t)

	ul, err := db.GetUserLevel("ana")
	if err != nil {
		t.Fatalf("GetUserLevel() error: %v", err)
	}
	if ul.Level != 1 || ul.TotalXP != 0 {
		t.Errorf("default = level %d, %d XP; want 1, 0", ul.Level, ul.TotalXP)
	}

	if err := db.SetUserLevel("ana", 250, 3); err != nil {
		t.Fatalf("SetUserLevel() error: %v", err)
	}
	ul, _ = db.GetUserLevel("ana")
	if ul.Level != 3 || ul.TotalXP != 250 {
		t.Errorf("after set = level %d, %d XP; want 3, 250", ul.Level, ul.TotalXP)
	}
}
