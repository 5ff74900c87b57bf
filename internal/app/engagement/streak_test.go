package engagement

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreak_FirstDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-01"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 1 {
		t.Errorf("first day streak = %d, want 1", streak.CurrentDays)
	}
}

func TestStreak_SameDayIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-01"))
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-01").Add(6*time.Hour))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 1 {
		t.Errorf("same-day streak = %d, want 1", streak.CurrentDays)
	}
}

func TestStreak_ConsecutiveDaysExtend(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-01"))
	svc.Record("ana", ActivityCooking, day("2026-08-02"))
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-03"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 3 {
		t.Errorf("3 consecutive days = %d, want 3", streak.CurrentDays)
	}
}

func TestStreak_OneDayGapConsumesFreeze(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-03")) // Monday
	svc.Record("ana", ActivityCooking, day("2026-08-04"))
	// Skip Aug 5
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-06"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 3 {
		t.Errorf("streak after frozen gap = %d, want 3", streak.CurrentDays)
	}
	if !streak.FreezeUsed {
		t.Error("freeze not marked used")
	}
}

func TestStreak_SecondGapSameWeekResets(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-03")) // Mon, ISO week 32
	// Skip Aug 4 — freeze covers it
	svc.Record("ana", ActivityCooking, day("2026-08-05"))
	// Skip Aug 6 — second gap in the same ISO week
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-07"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 1 {
		t.Errorf("second gap in week = %d days, want 1 (reset)", streak.CurrentDays)
	}
}

func TestStreak_FreezeRenewsNextWeek(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-05")) // Wed, week 32
	// Skip Aug 6 — freeze for week 32
	svc.Record("ana", ActivityCooking, day("2026-08-07"))
	svc.Record("ana", ActivityCooking, day("2026-08-08"))
	svc.Record("ana", ActivityCooking, day("2026-08-09"))
	svc.Record("ana", ActivityCooking, day("2026-08-10")) // Mon, week 33
	// Skip Aug 11 — new ISO week, freeze available again
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-12"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 6 {
		t.Errorf("streak = %d, want 6 (freeze renews weekly)", streak.CurrentDays)
	}
}

func TestStreak_LargeGapResetsSilently(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-01"))
	svc.Record("ana", ActivityCooking, day("2026-08-02"))
	streak, err := svc.Record("ana", ActivityCooking, day("2026-08-20"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if streak.CurrentDays != 1 {
		t.Errorf("streak after 18-day gap = %d, want 1", streak.CurrentDays)
	}
}

func TestStreak_LongestTracked(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-01"))
	svc.Record("ana", ActivityCooking, day("2026-08-02"))
	svc.Record("ana", ActivityCooking, day("2026-08-03"))
	streak, _ := svc.Record("ana", ActivityCooking, day("2026-08-20")) // Reset

	if streak.CurrentDays != 1 {
		t.Errorf("current = %d, want 1", streak.CurrentDays)
	}
	if streak.LongestDays != 3 {
		t.Errorf("longest = %d, want 3", streak.LongestDays)
	}
}

func TestStreak_ActivitiesIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	svc.Record("ana", ActivityCooking, day("2026-08-01"))
	svc.Record("ana", ActivityCooking, day("2026-08-02"))
	planning, err := svc.Record("ana", ActivityPlanning, day("2026-08-02"))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if planning.CurrentDays != 1 {
		t.Errorf("planning streak = %d, want 1", planning.CurrentDays)
	}

	cooking, _ := svc.Current("ana", ActivityCooking)
	if cooking.CurrentDays != 2 {
		t.Errorf("cooking streak = %d, want 2", cooking.CurrentDays)
	}
}
