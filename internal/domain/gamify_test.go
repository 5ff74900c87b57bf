package domain

import "testing"

func TestUserStats_Resolve(t *testing.T) {
	stats := UserStats{
		UserID:   "ana",
		Counters: map[StatKind]int64{StatRecipesCooked: 12},
		Streaks:  map[string]int{"cooking": 4},
	}

	if got := stats.Resolve(Requirement{Kind: StatRecipesCooked, Target: 25}); got != 12 {
		t.Errorf("counter resolve = %d, want 12", got)
	}
	if got := stats.Resolve(Requirement{Kind: StatStreak, Target: 7, Activity: "cooking"}); got != 4 {
		t.Errorf("streak resolve = %d, want 4", got)
	}
	// Lookup misses resolve to 0, never an error
	if got := stats.Resolve(Requirement{Kind: StatMealsPlanned, Target: 1}); got != 0 {
		t.Errorf("missing counter = %d, want 0", got)
	}
	if got := stats.Resolve(Requirement{Kind: StatStreak, Target: 1, Activity: "planning"}); got != 0 {
		t.Errorf("missing streak = %d, want 0", got)
	}
}

func TestAchievementProgress_State(t *testing.T) {
	if s := (AchievementProgress{}).State(); s != ProgressNotStarted {
		t.Errorf("empty state = %s, want NOT_STARTED", s)
	}
	if s := (AchievementProgress{Progress: 3}).State(); s != ProgressInProgress {
		t.Errorf("partial state = %s, want IN_PROGRESS", s)
	}
	if s := (AchievementProgress{Completed: true}).State(); s != ProgressCompleted {
		t.Errorf("completed state = %s, want COMPLETED", s)
	}
	// Completed wins even when the display sum reads as partial
	if s := (AchievementProgress{Progress: 1, MaxProgress: 10, Completed: true}).State(); s != ProgressCompleted {
		t.Errorf("state = %s, want COMPLETED", s)
	}
}

func TestAchievementProgress_Pct(t *testing.T) {
	if pct := (AchievementProgress{Progress: 5, MaxProgress: 10}).Pct(); pct != 50.0 {
		t.Errorf("Pct = %f, want 50", pct)
	}
	// Uncapped sums can exceed the max; display clamps at 100
	if pct := (AchievementProgress{Progress: 120, MaxProgress: 100}).Pct(); pct != 100.0 {
		t.Errorf("Pct over max = %f, want 100", pct)
	}
	if pct := (AchievementProgress{MaxProgress: 0}).Pct(); pct != 100.0 {
		t.Errorf("Pct with zero max = %f, want 100", pct)
	}
}
