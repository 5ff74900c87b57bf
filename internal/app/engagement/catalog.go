package engagement

import (
	"fmt"

	"github.com/takato23/cocina/internal/domain"
)

// ─── Achievement Catalog ────────────────────────────────────────────────────
// Built-in definitions across 5 categories. Each achievement lists one or
// more (statistic, target) requirements; all must be met independently.

// DefaultCatalog returns the built-in achievement catalog. Loading is
// idempotent — the returned definitions are freshly constructed each call
// and contain no duplicate IDs (ValidateCatalog enforces this at startup).
func DefaultCatalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Getting Started ────────────────────────────────────────────
		{
			ID: "first_cook", Name: "First Flame", Category: domain.CatGettingStarted,
			Icon: "🍳", Description: "Cook your first recipe.",
			Requirements: []domain.Requirement{{Kind: domain.StatRecipesCooked, Target: 1}},
			RewardXP:     50, RewardPoints: 10,
		},
		{
			ID: "first_plan", Name: "On the Menu", Category: domain.CatGettingStarted,
			Icon: "📋", Description: "Plan your first meal.",
			Requirements: []domain.Requirement{{Kind: domain.StatMealsPlanned, Target: 1}},
			RewardXP:     30, RewardPoints: 5,
		},
		{
			ID: "first_creation", Name: "Recipe Author", Category: domain.CatGettingStarted,
			Icon: "✍️", Description: "Publish your first recipe.",
			Requirements: []domain.Requirement{{Kind: domain.StatRecipesCreated, Target: 1}},
			RewardXP:     100, RewardPoints: 20,
		},
		{
			ID: "pantry_pioneer", Name: "Pantry Pioneer", Category: domain.CatGettingStarted,
			Icon: "🥫", Description: "Track 10 pantry items.",
			Requirements: []domain.Requirement{{Kind: domain.StatPantryItems, Target: 10}},
			RewardXP:     40, RewardPoints: 10,
		},

		// ── Kitchen ────────────────────────────────────────────────────
		{
			ID: "home_chef", Name: "Home Chef", Category: domain.CatKitchen,
			Icon: "👨‍🍳", Description: "Cook 25 recipes.",
			Requirements: []domain.Requirement{{Kind: domain.StatRecipesCooked, Target: 25}},
			RewardXP:     200, RewardPoints: 40,
		},
		{
			ID: "kitchen_master", Name: "Kitchen Master", Category: domain.CatKitchen,
			Icon: "🏆", Description: "Cook 100 recipes.",
			Requirements: []domain.Requirement{{Kind: domain.StatRecipesCooked, Target: 100}},
			RewardXP:     1000, RewardPoints: 150,
		},
		{
			ID: "prolific_author", Name: "Prolific Author", Category: domain.CatKitchen,
			Icon: "📚", Description: "Publish 10 recipes.",
			Requirements: []domain.Requirement{{Kind: domain.StatRecipesCreated, Target: 10}},
			RewardXP:     500, RewardPoints: 75,
		},

		// ── Planning ───────────────────────────────────────────────────
		{
			ID: "week_planner", Name: "Week Planner", Category: domain.CatPlanning,
			Icon: "🗓️", Description: "Plan 7 meals.",
			Requirements: []domain.Requirement{{Kind: domain.StatMealsPlanned, Target: 7}},
			RewardXP:     150, RewardPoints: 25,
		},
		{
			ID: "menu_strategist", Name: "Menu Strategist", Category: domain.CatPlanning,
			Icon: "♟️", Description: "Plan 50 meals.",
			Requirements: []domain.Requirement{{Kind: domain.StatMealsPlanned, Target: 50}},
			RewardXP:     600, RewardPoints: 80,
		},
		{
			ID: "list_closer", Name: "List Closer", Category: domain.CatPlanning,
			Icon: "✅", Description: "Complete 20 shopping lists.",
			Requirements: []domain.Requirement{{Kind: domain.StatShoppingLists, Target: 20}},
			RewardXP:     300, RewardPoints: 50,
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_7", Name: "Week of Flavor", Category: domain.CatStreaks,
			Icon: "🔥", Description: "Cook 7 days in a row.",
			Requirements: []domain.Requirement{{Kind: domain.StatStreak, Target: 7, Activity: ActivityCooking}},
			RewardXP:     200, RewardPoints: 50,
		},
		{
			ID: "streak_30", Name: "Monthly Machine", Category: domain.CatStreaks,
			Icon: "💪", Description: "Cook 30 days in a row.",
			Requirements: []domain.Requirement{{Kind: domain.StatStreak, Target: 30, Activity: ActivityCooking}},
			RewardXP:     1000, RewardPoints: 200,
		},
		{
			ID: "checkin_14", Name: "Regular", Category: domain.CatStreaks,
			Icon: "📅", Description: "Check in 14 days in a row.",
			Requirements: []domain.Requirement{{Kind: domain.StatStreak, Target: 14, Activity: ActivityCheckIn}},
			RewardXP:     300, RewardPoints: 60,
		},

		// ── Mastery ────────────────────────────────────────────────────
		{
			ID: "well_rounded", Name: "Well Rounded", Category: domain.CatMastery,
			Icon: "🎯", Description: "Cook 50 recipes, publish 5, and plan 25 meals.",
			Requirements: []domain.Requirement{
				{Kind: domain.StatRecipesCooked, Target: 50},
				{Kind: domain.StatRecipesCreated, Target: 5},
				{Kind: domain.StatMealsPlanned, Target: 25},
			},
			RewardXP: 800, RewardPoints: 120,
		},
		{
			ID: "quartermaster", Name: "Quartermaster", Category: domain.CatMastery,
			Icon: "📦", Description: "Track 200 pantry items.",
			Requirements: []domain.Requirement{{Kind: domain.StatPantryItems, Target: 200}},
			RewardXP:     400, RewardPoints: 60,
		},
		{
			ID: "level_10", Name: "Rising Star", Category: domain.CatMastery,
			Icon: "🌅", Description: "Reach level 10.",
			Requirements: []domain.Requirement{{Kind: domain.StatLevel, Target: 10}},
			RewardXP:     250, RewardPoints: 50,
		},
		{
			ID: "level_50", Name: "Veteran", Category: domain.CatMastery,
			Icon: "🎖️", Description: "Reach level 50.",
			Requirements: []domain.Requirement{{Kind: domain.StatLevel, Target: 50}},
			RewardXP:     2000, RewardPoints: 400,
		},
	}
}

// ValidateCatalog rejects catalogs with duplicate IDs, achievements without
// requirements, or non-positive targets. Run once at startup.
func ValidateCatalog(defs []domain.AchievementDef) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.ID] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateAchievement, def.ID)
		}
		seen[def.ID] = true

		if len(def.Requirements) == 0 {
			return fmt.Errorf("%w: %s", domain.ErrEmptyRequirements, def.ID)
		}
		for _, req := range def.Requirements {
			if req.Target <= 0 {
				return fmt.Errorf("%w: %s/%s", domain.ErrInvalidTarget, def.ID, req.Kind)
			}
		}
	}
	return nil
}
