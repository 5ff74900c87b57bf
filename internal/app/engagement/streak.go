// Package engagement implements the cocina engagement engine:
// XP and levels, achievements, streaks, and notifications.
package engagement

import (
	"fmt"
	"time"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// Streak activity buckets. Each qualifying event type feeds one bucket.
const (
	ActivityCooking  = "cooking"
	ActivityPlanning = "planning"
	ActivityCheckIn  = "check_in"
)

// StreakService manages consecutive-day streaks per (user, activity).
// A missed day can be covered by one free freeze per ISO week; a second
// miss in the same week resets the streak silently.
type StreakService struct {
	db *sqlite.DB
}

// NewStreakService creates a streak service.
func NewStreakService(db *sqlite.DB) *StreakService {
	return &StreakService{db: db}
}

// Current loads the streak state for (user, activity).
func (s *StreakService) Current(userID, activity string) (domain.Streak, error) {
	return s.db.GetStreak(userID, activity)
}

// Record counts one qualifying day for (user, activity) and returns the
// updated streak. Same day: no-op. Consecutive day: extend. Gap of exactly
// one day: consume the weekly freeze if available, else reset. Larger gap:
// reset silently.
func (s *StreakService) Record(userID, activity string, day time.Time) (domain.Streak, error) {
	streak, err := s.db.GetStreak(userID, activity)
	if err != nil {
		return streak, err
	}

	today := day.UTC().Truncate(24 * time.Hour)

	// Same day — already counted
	if !streak.LastDate.IsZero() && today.Equal(streak.LastDate.Truncate(24*time.Hour)) {
		return streak, nil
	}

	if streak.LastDate.IsZero() {
		streak.CurrentDays = 1
	} else {
		gap := today.Sub(streak.LastDate.Truncate(24 * time.Hour))

		switch {
		case gap <= 24*time.Hour:
			streak.CurrentDays++

		case gap <= 48*time.Hour:
			// Missed exactly one day — try the weekly freeze
			currentWeek := isoWeek(today)
			if !streak.FreezeUsed || streak.FreezeWeekISO != currentWeek {
				streak.FreezeUsed = true
				streak.FreezeWeekISO = currentWeek
				streak.CurrentDays++ // Count today
			} else {
				streak.CurrentDays = 1
			}

		default:
			// Gap > 2 days — resets silently, no "streak lost" nagging
			streak.CurrentDays = 1
		}
	}

	streak.LastDate = today
	if streak.CurrentDays > streak.LongestDays {
		streak.LongestDays = streak.CurrentDays
	}

	if err := s.db.SaveStreak(streak); err != nil {
		return streak, fmt.Errorf("save streak: %w", err)
	}
	return streak, nil
}

// isoWeek returns "YYYY-Www" for the given time.
func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
