package engagement

import (
	"testing"

	"github.com/takato23/cocina/internal/domain"
)

func TestCalculateXP_BaseAmounts(t *testing.T) {
	cases := []struct {
		event domain.EventType
		want  int64
	}{
		{domain.EventRecipeCooked, 50},
		{domain.EventRecipeCreated, 100},
		{domain.EventMealPlanned, 30},
		{domain.EventPantryItemAdded, 10},
		{domain.EventShoppingListDone, 40},
		{domain.EventDailyCheckIn, 20},
	}
	for _, c := range cases {
		if got := CalculateXP(c.event, domain.EventMeta{}); got != c.want {
			t.Errorf("CalculateXP(%s) = %d, want %d", c.event, got, c.want)
		}
	}
}

func TestCalculateXP_UnknownTypeAwardsZero(t *testing.T) {
	if got := CalculateXP("recipe_deleted", domain.EventMeta{FirstTime: true}); got != 0 {
		t.Errorf("unknown event XP = %d, want 0", got)
	}
}

func TestCalculateXP_ModifierStack(t *testing.T) {
	// 100 base × 1.5 hard × 2.0 streak(20d) × 1.5 first-time = 450
	got := CalculateXP(domain.EventRecipeCreated, domain.EventMeta{
		Difficulty: domain.DifficultyHard,
		StreakDays: 20,
		FirstTime:  true,
	})
	if got != 450 {
		t.Errorf("stacked modifiers = %d, want 450", got)
	}
}

func TestCalculateXP_FloorsOnceAtEnd(t *testing.T) {
	// 50 × 1.5 × 1.05 × 1.25 = 98.4375 → 98.
	// Flooring after each step would give 97 instead.
	got := CalculateXP(domain.EventRecipeCooked, domain.EventMeta{
		Difficulty:         domain.DifficultyHard,
		StreakDays:         1,
		FasterThanEstimate: true,
	})
	if got != 98 {
		t.Errorf("XP = %d, want 98 (single final floor)", got)
	}
}

func TestCalculateXP_RatingScalesCreationOnly(t *testing.T) {
	// Rating 4/5 scales a creation event
	got := CalculateXP(domain.EventRecipeCreated, domain.EventMeta{Rating: 4})
	if got != 80 {
		t.Errorf("created with rating 4 = %d, want 80", got)
	}

	// Same rating on a cooking event is ignored
	got = CalculateXP(domain.EventRecipeCooked, domain.EventMeta{Rating: 4})
	if got != 50 {
		t.Errorf("cooked with rating 4 = %d, want 50", got)
	}

	// Out-of-range ratings are skipped
	got = CalculateXP(domain.EventRecipeCreated, domain.EventMeta{Rating: 9})
	if got != 100 {
		t.Errorf("created with rating 9 = %d, want 100", got)
	}
}

func TestCalculateXP_UnrecognizedDifficultySkipped(t *testing.T) {
	got := CalculateXP(domain.EventRecipeCooked, domain.EventMeta{Difficulty: "nightmare"})
	if got != 50 {
		t.Errorf("unrecognized difficulty = %d, want 50", got)
	}
}

func TestStreakMultiplier(t *testing.T) {
	cases := []struct {
		days int
		want float64
	}{
		{0, 1.0},
		{-2, 1.0},
		{1, 1.05},
		{10, 1.5},
		{40, 3.0},  // Exactly at the cap
		{100, 3.0}, // Capped
	}
	for _, c := range cases {
		if got := StreakMultiplier(c.days); got != c.want {
			t.Errorf("StreakMultiplier(%d) = %f, want %f", c.days, got, c.want)
		}
	}
}

func TestCalculateXP_StreakCapApplies(t *testing.T) {
	got := CalculateXP(domain.EventRecipeCooked, domain.EventMeta{StreakDays: 365})
	if got != 150 {
		t.Errorf("cooked with 365-day streak = %d, want 150 (x3 cap)", got)
	}
}

func TestPointsForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want int64
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{98, 9},
		{450, 45},
		{-50, 0},
	}
	for _, c := range cases {
		if got := PointsForXP(c.xp); got != c.want {
			t.Errorf("PointsForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}
