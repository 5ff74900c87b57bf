package engagement

import (
	"math"
	"sort"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// MaxLevel caps the level curve. XP past the final threshold saturates.
const MaxLevel = 100

const (
	levelBaseXP = 100.0
	levelGrowth = 1.15
)

// thresholds[i] is the cumulative XP required to reach level i+1.
// thresholds[0] = 0; each step adds floor(100 * 1.15^n). Strictly increasing,
// built once at init, immutable after.
var thresholds = buildThresholds()

func buildThresholds() []int64 {
	t := make([]int64, MaxLevel)
	for i := 1; i < MaxLevel; i++ {
		// 1.15 is not exactly representable, so products that are
		// mathematically whole (100*1.15 = 115) can land a hair below the
		// integer; nudge before flooring so they survive.
		step := int64(math.Floor(levelBaseXP*math.Pow(levelGrowth, float64(i-1)) + 1e-9))
		t[i] = t[i-1] + step
	}
	return t
}

// XPForLevel returns the cumulative XP required to reach a given level.
// Levels at or below 1 need 0 XP; levels above MaxLevel clamp to the top.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return thresholds[level-1]
}

// LevelForXP returns the level for a cumulative XP amount: the greatest
// level whose threshold is <= totalXP (thresholds are inclusive lower
// bounds). Negative input clamps to 0. Saturates at MaxLevel.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	// First index whose threshold exceeds totalXP; that index is the level
	// since thresholds[L-1] is the entry bar for level L.
	level := sort.Search(len(thresholds), func(i int) bool {
		return thresholds[i] > totalXP
	})
	if level < 1 {
		level = 1
	}
	return level
}

// XPToNextLevel returns XP remaining until the next level, 0 at MaxLevel.
func XPToNextLevel(totalXP int64) int64 {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelForXP(totalXP)
	if level >= MaxLevel {
		return 0
	}
	return thresholds[level] - totalXP
}

// ProgressPct returns progress toward the next level (0.0–100.0), linearly
// interpolated between the current and next thresholds. 100 at MaxLevel.
func ProgressPct(totalXP int64) float64 {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelForXP(totalXP)
	if level >= MaxLevel {
		return 100.0
	}
	this := thresholds[level-1]
	next := thresholds[level]
	span := next - this
	if span <= 0 {
		return 100.0
	}
	pct := float64(totalXP-this) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// LevelService manages per-user XP and level state.
type LevelService struct {
	db *sqlite.DB
}

// NewLevelService creates a level service.
func NewLevelService(db *sqlite.DB) *LevelService {
	return &LevelService{db: db}
}

// CurrentLevel returns the user's current level and XP.
func (l *LevelService) CurrentLevel(userID string) (domain.UserLevel, error) {
	ul, err := l.db.GetUserLevel(userID)
	if err != nil {
		return ul, err
	}
	ul.Level = LevelForXP(ul.TotalXP)
	return ul, nil
}

// AddXP adds experience points and returns (newTotal, newLevel, leveledUp).
func (l *LevelService) AddXP(userID string, amount int64, source domain.XPSource) (int64, int, bool, error) {
	if amount <= 0 {
		return 0, 0, false, domain.ErrNegativeXP
	}

	current, err := l.CurrentLevel(userID)
	if err != nil {
		return 0, 0, false, err
	}

	oldLevel := current.Level
	newXP := current.TotalXP + amount
	newLevel := LevelForXP(newXP)

	if err := l.db.SetUserLevel(userID, newXP, newLevel); err != nil {
		return 0, 0, false, err
	}

	return newXP, newLevel, newLevel > oldLevel, nil
}

// XPToNext returns XP remaining until the user's next level.
func (l *LevelService) XPToNext(userID string) (int64, error) {
	current, err := l.CurrentLevel(userID)
	if err != nil {
		return 0, err
	}
	return XPToNextLevel(current.TotalXP), nil
}

// Progress returns the user's progress percentage toward the next level.
func (l *LevelService) Progress(userID string) (float64, error) {
	current, err := l.CurrentLevel(userID)
	if err != nil {
		return 0, err
	}
	return ProgressPct(current.TotalXP), nil
}
