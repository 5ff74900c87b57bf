// Package domain holds the gamification types shared across cocina.
// The engagement engine drives retention for the cooking app through XP,
// levels, achievements, streaks, points, and smart notifications.
package domain

import "time"

// ─── Events ─────────────────────────────────────────────────────────────────

// EventType categorizes an XP-granting user action.
type EventType string

const (
	EventRecipeCooked     EventType = "recipe_cooked"
	EventRecipeCreated    EventType = "recipe_created"
	EventMealPlanned      EventType = "meal_planned"
	EventPantryItemAdded  EventType = "pantry_item_added"
	EventShoppingListDone EventType = "shopping_list_completed"
	EventDailyCheckIn     EventType = "daily_check_in"
)

// Difficulty scales XP for cooking events.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// EventMeta carries the optional modifiers attached to an event.
// Missing fields are simply skipped by the award calculator (multiplier 1.0).
type EventMeta struct {
	Difficulty         Difficulty `json:"difficulty,omitempty"`
	StreakDays         int        `json:"streak_days,omitempty"`
	FirstTime          bool       `json:"first_time,omitempty"`
	Rating             int        `json:"rating,omitempty"` // 1–5, creation events only
	FasterThanEstimate bool       `json:"faster_than_estimate,omitempty"`
}

// XPEvent is an immutable log record of one XP-granting action.
// Append-only; used for history and analytics, never re-read for decisions.
type XPEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      EventType `json:"type"`
	Amount    int64     `json:"amount"`
	Points    int64     `json:"points"`
	Meta      EventMeta `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Statistics ─────────────────────────────────────────────────────────────

// StatKind names a per-user counter. Counters only ever increase.
type StatKind string

const (
	StatRecipesCooked  StatKind = "recipes_cooked"
	StatRecipesCreated StatKind = "recipes_created"
	StatMealsPlanned   StatKind = "meals_planned"
	StatPantryItems    StatKind = "pantry_items_added"
	StatShoppingLists  StatKind = "shopping_lists_completed"
	StatDaysActive     StatKind = "days_active"

	// StatStreak is resolved through the nested streak lookup, keyed by
	// the requirement's Activity field rather than a flat counter.
	StatStreak StatKind = "streak"

	// StatLevel is injected into the snapshot by the engine so that
	// level-gated achievements evaluate against the current level.
	StatLevel StatKind = "level"
)

// UserStats is a snapshot of one user's counters fed to the achievement
// aggregator. A lookup miss resolves to 0, never an error.
type UserStats struct {
	UserID   string             `json:"user_id"`
	Counters map[StatKind]int64 `json:"counters"`
	Streaks  map[string]int     `json:"streaks"` // activity → current days
}

// Resolve returns the current value for a requirement: a direct counter
// lookup, or the nested streak lookup for streak-kind requirements.
func (s UserStats) Resolve(r Requirement) int64 {
	if r.Kind == StatStreak {
		return int64(s.Streaks[r.Activity])
	}
	return s.Counters[r.Kind]
}

// ─── Level / XP ─────────────────────────────────────────────────────────────

// UserLevel is a user's current level and cumulative XP.
// Level is denormalized from XP for quick reads.
type UserLevel struct {
	UserID  string `json:"user_id"`
	Level   int    `json:"level"`
	TotalXP int64  `json:"total_xp"`
}

// XPSource categorizes how XP was earned.
type XPSource string

const (
	XPEventRecorded XPSource = "EVENT"
	XPAchievement   XPSource = "ACHIEVEMENT"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatGettingStarted AchievementCategory = "getting_started"
	CatKitchen        AchievementCategory = "kitchen"
	CatPlanning       AchievementCategory = "planning"
	CatStreaks        AchievementCategory = "streaks"
	CatMastery        AchievementCategory = "mastery"
)

// Requirement is one (statistic, target) pair. Every requirement of an
// achievement must independently reach its own target for completion.
type Requirement struct {
	Kind     StatKind `json:"kind" toml:"kind"`
	Target   int64    `json:"target" toml:"target"`
	Activity string   `json:"activity,omitempty" toml:"activity"` // streak requirements only
}

// AchievementDef defines one achievement. Immutable catalog data.
type AchievementDef struct {
	ID           string              `json:"id" toml:"id"`
	Name         string              `json:"name" toml:"name"`
	Description  string              `json:"description" toml:"description"`
	Category     AchievementCategory `json:"category" toml:"category"`
	Icon         string              `json:"icon" toml:"icon"`
	Requirements []Requirement       `json:"requirements" toml:"requirement"`
	RewardXP     int64               `json:"reward_xp" toml:"reward_xp"`
	RewardPoints int64               `json:"reward_points" toml:"reward_points"`
}

// ProgressState is the per-(user, achievement) state machine.
// COMPLETED is terminal — there is no regression transition.
type ProgressState string

const (
	ProgressNotStarted ProgressState = "NOT_STARTED"
	ProgressInProgress ProgressState = "IN_PROGRESS"
	ProgressCompleted  ProgressState = "COMPLETED"
)

// AchievementProgress tracks one user's progress on one achievement.
// Progress and MaxProgress are summed across requirements and exist for
// progress-bar display only; the Completed flag is the authority.
type AchievementProgress struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Progress      int64     `json:"progress"`
	MaxProgress   int64     `json:"max_progress"`
	Completed     bool      `json:"completed"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
}

// State derives the state-machine position from the stored row.
func (p AchievementProgress) State() ProgressState {
	switch {
	case p.Completed:
		return ProgressCompleted
	case p.Progress > 0:
		return ProgressInProgress
	default:
		return ProgressNotStarted
	}
}

// Pct returns the display percentage (0–100). Because progress is summed
// across requirements with uneven targets, this can read below 100 while
// Completed is already true — display only, never authoritative.
func (p AchievementProgress) Pct() float64 {
	if p.MaxProgress <= 0 {
		return 100.0
	}
	pct := float64(p.Progress) / float64(p.MaxProgress) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// ─── Streaks ────────────────────────────────────────────────────────────────

// Streak tracks consecutive qualifying days for one activity of one user.
// One free freeze per ISO week covers a single missed day.
type Streak struct {
	UserID        string    `json:"user_id"`
	Activity      string    `json:"activity"`
	CurrentDays   int       `json:"current_days"`
	LongestDays   int       `json:"longest_days"`
	LastDate      time.Time `json:"last_date"`
	FreezeUsed    bool      `json:"freeze_used"`
	FreezeWeekISO string    `json:"freeze_week_iso"` // "2026-W33"
}

// ─── Award results ──────────────────────────────────────────────────────────

// AwardResult is the outcome of recording one event.
type AwardResult struct {
	EventID       string           `json:"event_id,omitempty"`
	XPAwarded     int64            `json:"xp_awarded"`
	PointsAwarded int64            `json:"points_awarded"`
	TotalXP       int64            `json:"total_xp"`
	NewLevel      int              `json:"new_level"`
	LeveledUp     bool             `json:"leveled_up"`
	Unlocked      []AchievementDef `json:"achievements_unlocked"`
	RewardXP      int64            `json:"reward_xp"`
	RewardPoints  int64            `json:"reward_points"`
}

// UnlockResult is the outcome of one achievement check pass.
type UnlockResult struct {
	Unlocked      []AchievementDef `json:"achievements_unlocked"`
	XPAwarded     int64            `json:"xp_awarded"`
	PointsAwarded int64            `json:"points_awarded"`
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

// TxType categorizes a points transaction.
type TxType string

const (
	TxEarn  TxType = "EARN"
	TxSpend TxType = "SPEND"
)

// EntryType is the double-entry side.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// LedgerEntry is one side of a double-entry points transaction.
// SUM(debits) == SUM(credits) is an invariant across the ledger.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        TxType    `json:"type"`
	EntryType   EntryType `json:"entry_type"`
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"`
	EventID     string    `json:"event_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Balance     int64     `json:"balance"`
}

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyAchievement NotificationType = "achievement"
	NotifyLevelUp     NotificationType = "level_up"
	NotifySummary     NotificationType = "summary"
)

// Notification is a user-facing message rendered by the app shell.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy governs delivery: per-user daily cap and quiet hours.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the shipping policy.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
