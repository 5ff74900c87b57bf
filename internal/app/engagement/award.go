package engagement

import (
	"math"

	"github.com/takato23/cocina/internal/domain"
)

// Base XP per event type. Unknown types award 0 XP without error — a
// deliberate silent-default policy; the engine counts occurrences so the
// default stays observable.
var baseXP = map[domain.EventType]int64{
	domain.EventRecipeCooked:     50,
	domain.EventRecipeCreated:    100,
	domain.EventMealPlanned:      30,
	domain.EventPantryItemAdded:  10,
	domain.EventShoppingListDone: 40,
	domain.EventDailyCheckIn:     20,
}

// BaseXP returns the base amount for an event type.
func BaseXP(t domain.EventType) (int64, bool) {
	base, ok := baseXP[t]
	return base, ok
}

// StreakMultiplier is the streak XP modifier: +5% per consecutive day,
// capped at ×3.0.
func StreakMultiplier(streakDays int) float64 {
	if streakDays <= 0 {
		return 1.0
	}
	return math.Min(1.0+0.05*float64(streakDays), 3.0)
}

func difficultyMultiplier(d domain.Difficulty) float64 {
	switch d {
	case domain.DifficultyEasy:
		return 1.0
	case domain.DifficultyMedium:
		return 1.2
	case domain.DifficultyHard:
		return 1.5
	case domain.DifficultyExpert:
		return 2.0
	default:
		return 1.0 // Unrecognized difficulty is skipped, not an error
	}
}

// isCreationEvent reports whether rating scaling applies to this event type.
func isCreationEvent(t domain.EventType) bool {
	return t == domain.EventRecipeCreated
}

// CalculateXP computes the XP granted for one event. Modifiers are
// independently multiplicative and applied in a fixed order so results are
// reproducible:
//  1. difficulty multiplier
//  2. streak multiplier
//  3. first-time bonus ×1.5
//  4. rating scaling (rating/5, creation events with a 1–5 rating only)
//  5. efficiency bonus ×1.25
// The result is floored to an integer once, at the end.
func CalculateXP(t domain.EventType, meta domain.EventMeta) int64 {
	base, ok := baseXP[t]
	if !ok {
		return 0
	}

	xp := float64(base)
	if meta.Difficulty != "" {
		xp *= difficultyMultiplier(meta.Difficulty)
	}
	if meta.StreakDays > 0 {
		xp *= StreakMultiplier(meta.StreakDays)
	}
	if meta.FirstTime {
		xp *= 1.5
	}
	if isCreationEvent(t) && meta.Rating >= 1 && meta.Rating <= 5 {
		xp *= float64(meta.Rating) / 5.0
	}
	if meta.FasterThanEstimate {
		xp *= 1.25
	}

	return int64(math.Floor(xp))
}

// PointsForXP converts an XP amount to reward points.
func PointsForXP(xp int64) int64 {
	if xp <= 0 {
		return 0
	}
	return xp / 10
}
