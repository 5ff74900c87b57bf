package engagement

import (
	"time"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// AchievementService evaluates the achievement catalog against user
// statistics snapshots and tracks per-user progress.
type AchievementService struct {
	db          *sqlite.DB
	definitions []domain.AchievementDef
}

// NewAchievementService creates an achievement service with the built-in
// catalog.
func NewAchievementService(db *sqlite.DB) *AchievementService {
	return &AchievementService{db: db, definitions: DefaultCatalog()}
}

// NewAchievementServiceWithCatalog creates a service over a custom catalog.
func NewAchievementServiceWithCatalog(db *sqlite.DB, defs []domain.AchievementDef) *AchievementService {
	return &AchievementService{db: db, definitions: defs}
}

// CheckAndUnlock recomputes progress for every achievement the user has not
// yet completed and returns those newly satisfied by this call.
//
// Completion authority is per-requirement: an achievement unlocks only when
// EVERY requirement's resolved value reaches its own target. The summed
// progress/max totals are stored for progress-bar display only and can read
// under 100% on a completed achievement when targets are uneven — a known
// display quirk, kept intentionally.
func (a *AchievementService) CheckAndUnlock(userID string, stats domain.UserStats, now time.Time) (domain.UnlockResult, error) {
	var result domain.UnlockResult

	for _, def := range a.definitions {
		prev, err := a.db.GetProgress(userID, def.ID)
		if err != nil {
			return result, err
		}
		if prev != nil && prev.Completed {
			continue // Terminal — never re-evaluated
		}

		var total, max int64
		allMet := true
		for _, req := range def.Requirements {
			resolved := stats.Resolve(req) // Missing counter resolves to 0
			total += resolved
			max += req.Target
			if resolved < req.Target {
				allMet = false
			}
		}

		p := domain.AchievementProgress{
			UserID:        userID,
			AchievementID: def.ID,
			Progress:      total,
			MaxProgress:   max,
			Completed:     allMet,
		}
		if allMet {
			p.CompletedAt = now
		}
		if err := a.db.UpsertProgress(p); err != nil {
			return result, err
		}

		if allMet {
			result.Unlocked = append(result.Unlocked, def)
			result.XPAwarded += def.RewardXP
			result.PointsAwarded += def.RewardPoints
		}
	}

	return result, nil
}

// Progress returns all stored progress rows for a user.
func (a *AchievementService) Progress(userID string) ([]domain.AchievementProgress, error) {
	return a.db.ListProgress(userID)
}

// CompletedCount returns how many achievements the user has completed.
func (a *AchievementService) CompletedCount(userID string) (int, error) {
	return a.db.CompletedCount(userID)
}

// Definitions returns the full catalog (for display).
func (a *AchievementService) Definitions() []domain.AchievementDef {
	return a.definitions
}

// TotalCount returns the number of defined achievements.
func (a *AchievementService) TotalCount() int {
	return len(a.definitions)
}

// Lookup finds a definition by ID.
func (a *AchievementService) Lookup(id string) (domain.AchievementDef, error) {
	for _, def := range a.definitions {
		if def.ID == id {
			return def, nil
		}
	}
	return domain.AchievementDef{}, domain.ErrAchievementNotFound
}
