package engagement

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/takato23/cocina/internal/app/points"
	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/metrics"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// Engine orchestrates one event end to end: stat mutation, streak tracking,
// XP award, level update, achievement evaluation, points credit, and
// notification emission. All collaborators are injected by the composition
// root — no package-level singletons.
type Engine struct {
	db           *sqlite.DB
	levels       *LevelService
	achievements *AchievementService
	streaks      *StreakService
	points       *points.Service
	sink         NotificationSink // May be nil (notifications disabled)
}

// NewEngine wires the engagement engine.
func NewEngine(db *sqlite.DB, levels *LevelService, achievements *AchievementService,
	streaks *StreakService, pts *points.Service, sink NotificationSink) *Engine {
	return &Engine{
		db:           db,
		levels:       levels,
		achievements: achievements,
		streaks:      streaks,
		points:       pts,
		sink:         sink,
	}
}

// statForEvent maps each event type to the counter it increments.
var statForEvent = map[domain.EventType]domain.StatKind{
	domain.EventRecipeCooked:     domain.StatRecipesCooked,
	domain.EventRecipeCreated:    domain.StatRecipesCreated,
	domain.EventMealPlanned:      domain.StatMealsPlanned,
	domain.EventPantryItemAdded:  domain.StatPantryItems,
	domain.EventShoppingListDone: domain.StatShoppingLists,
	domain.EventDailyCheckIn:     domain.StatDaysActive,
}

// activityForEvent maps event types to the streak bucket they feed.
var activityForEvent = map[domain.EventType]string{
	domain.EventRecipeCooked: ActivityCooking,
	domain.EventMealPlanned:  ActivityPlanning,
	domain.EventDailyCheckIn: ActivityCheckIn,
}

// RecordEvent processes one user action at the current time.
func (e *Engine) RecordEvent(userID string, t domain.EventType, meta domain.EventMeta) (domain.AwardResult, error) {
	return e.RecordEventAt(userID, t, meta, time.Now())
}

// RecordEventAt processes one user action. Events of unknown type award
// 0 XP without error (counted on a metric); everything else flows through
// the award calculator, the level curve, and the achievement aggregator.
func (e *Engine) RecordEventAt(userID string, t domain.EventType, meta domain.EventMeta, now time.Time) (domain.AwardResult, error) {
	var result domain.AwardResult
	if userID == "" {
		return result, domain.ErrEmptyUserID
	}

	start := time.Now()
	defer func() {
		metrics.EventDuration.Observe(time.Since(start).Seconds())
	}()

	if _, known := BaseXP(t); !known {
		// Silent-default policy: unknown types are a no-op, not an error.
		metrics.UnknownEvents.WithLabelValues(string(t)).Inc()
		current, err := e.levels.CurrentLevel(userID)
		if err != nil {
			return result, err
		}
		result.TotalXP = current.TotalXP
		result.NewLevel = current.Level
		return result, nil
	}

	metrics.EventsRecorded.WithLabelValues(string(t)).Inc()

	// 1. Statistics
	if stat, ok := statForEvent[t]; ok {
		if _, err := e.db.IncrementStat(userID, stat, 1); err != nil {
			return result, fmt.Errorf("increment %s: %w", stat, err)
		}
	}

	// 2. Streaks — the recorded streak backs the XP modifier unless the
	// caller supplied explicit streak metadata.
	if activity, ok := activityForEvent[t]; ok {
		streak, err := e.streaks.Record(userID, activity, now)
		if err != nil {
			return result, fmt.Errorf("record streak: %w", err)
		}
		if meta.StreakDays == 0 {
			meta.StreakDays = streak.CurrentDays
		}
	}

	// 3. XP award
	xp := CalculateXP(t, meta)
	pts := PointsForXP(xp)
	result.XPAwarded = xp
	result.PointsAwarded = pts

	// 4. Append-only event log
	ev := domain.XPEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      t,
		Amount:    xp,
		Points:    pts,
		Meta:      meta,
		CreatedAt: now,
	}
	if err := e.db.InsertXPEvent(ev); err != nil {
		return result, fmt.Errorf("log xp event: %w", err)
	}
	result.EventID = ev.ID

	// 5. Level update
	var leveledUp bool
	var totalXP int64
	var newLevel int
	if xp > 0 {
		var err error
		totalXP, newLevel, leveledUp, err = e.levels.AddXP(userID, xp, domain.XPEventRecorded)
		if err != nil {
			return result, fmt.Errorf("add xp: %w", err)
		}
		metrics.XPAwarded.Add(float64(xp))
	} else {
		current, err := e.levels.CurrentLevel(userID)
		if err != nil {
			return result, err
		}
		totalXP, newLevel = current.TotalXP, current.Level
	}

	// 6. Achievements
	unlock, err := e.evaluateAchievements(userID, newLevel, now)
	if err != nil {
		return result, err
	}
	result.Unlocked = unlock.Unlocked
	result.RewardXP = unlock.XPAwarded
	result.RewardPoints = unlock.PointsAwarded
	for _, def := range unlock.Unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(string(def.Category)).Inc()
	}

	// 7. Achievement rewards feed back into the level curve
	if unlock.XPAwarded > 0 {
		var rewardLeveled bool
		totalXP, newLevel, rewardLeveled, err = e.levels.AddXP(userID, unlock.XPAwarded, domain.XPAchievement)
		if err != nil {
			return result, fmt.Errorf("add reward xp: %w", err)
		}
		leveledUp = leveledUp || rewardLeveled
		metrics.XPAwarded.Add(float64(unlock.XPAwarded))
	}
	result.TotalXP = totalXP
	result.NewLevel = newLevel
	result.LeveledUp = leveledUp
	if leveledUp {
		metrics.LevelUps.Inc()
	}

	// 8. Points
	if total := pts + unlock.PointsAwarded; total > 0 {
		if err := e.points.Earn(userID, total, ev.ID, string(t)); err != nil {
			return result, fmt.Errorf("earn points: %w", err)
		}
		metrics.PointsEarned.Add(float64(total))
	}

	// 9. Notifications — fire-and-forget
	e.notify(userID, result, now)

	return result, nil
}

// CheckAchievements re-evaluates the catalog against the user's current
// statistics without recording an event, awarding any pending rewards.
func (e *Engine) CheckAchievements(userID string) (domain.UnlockResult, error) {
	var result domain.UnlockResult
	if userID == "" {
		return result, domain.ErrEmptyUserID
	}

	now := time.Now()
	current, err := e.levels.CurrentLevel(userID)
	if err != nil {
		return result, err
	}

	result, err = e.evaluateAchievements(userID, current.Level, now)
	if err != nil {
		return result, err
	}

	if result.XPAwarded > 0 {
		if _, _, _, err := e.levels.AddXP(userID, result.XPAwarded, domain.XPAchievement); err != nil {
			return result, fmt.Errorf("add reward xp: %w", err)
		}
		metrics.XPAwarded.Add(float64(result.XPAwarded))
	}
	if result.PointsAwarded > 0 {
		if err := e.points.Earn(userID, result.PointsAwarded, "", "achievement rewards"); err != nil {
			return result, fmt.Errorf("earn points: %w", err)
		}
		metrics.PointsEarned.Add(float64(result.PointsAwarded))
	}

	for _, def := range result.Unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(string(def.Category)).Inc()
		e.notifyUnlock(userID, def, now)
	}

	return result, nil
}

// Stats returns the user's counter and streak snapshot with the current
// level included.
func (e *Engine) Stats(userID string) (domain.UserStats, error) {
	if userID == "" {
		return domain.UserStats{}, domain.ErrEmptyUserID
	}
	stats, err := e.db.UserStats(userID)
	if err != nil {
		return stats, fmt.Errorf("load stats: %w", err)
	}
	current, err := e.levels.CurrentLevel(userID)
	if err != nil {
		return stats, err
	}
	stats.Counters[domain.StatLevel] = int64(current.Level)
	return stats, nil
}

// evaluateAchievements snapshots the user's stats (with the current level
// injected so level-gated achievements resolve) and runs the aggregator.
func (e *Engine) evaluateAchievements(userID string, level int, now time.Time) (domain.UnlockResult, error) {
	stats, err := e.db.UserStats(userID)
	if err != nil {
		return domain.UnlockResult{}, fmt.Errorf("load stats: %w", err)
	}
	stats.Counters[domain.StatLevel] = int64(level)

	unlock, err := e.achievements.CheckAndUnlock(userID, stats, now)
	if err != nil {
		return unlock, fmt.Errorf("check achievements: %w", err)
	}
	return unlock, nil
}

func (e *Engine) notify(userID string, result domain.AwardResult, now time.Time) {
	if e.sink == nil {
		return
	}
	if result.LeveledUp {
		_, err := e.sink.Create(domain.Notification{
			UserID:    userID,
			Type:      domain.NotifyLevelUp,
			Title:     "Level Up!",
			Body:      fmt.Sprintf("You reached level %d!", result.NewLevel),
			CreatedAt: now,
		})
		if err != nil {
			log.Printf("[engagement] level-up notification: %v", err)
		}
	}
	for _, def := range result.Unlocked {
		e.notifyUnlock(userID, def, now)
	}
}

func (e *Engine) notifyUnlock(userID string, def domain.AchievementDef, now time.Time) {
	if e.sink == nil {
		return
	}
	_, err := e.sink.Create(domain.Notification{
		UserID:    userID,
		Type:      domain.NotifyAchievement,
		Title:     "Achievement Unlocked!",
		Body:      fmt.Sprintf("%s %s — %s", def.Icon, def.Name, def.Description),
		CreatedAt: now,
	})
	if err != nil {
		log.Printf("[engagement] unlock notification: %v", err)
	}
}
