package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/takato23/cocina/internal/domain"
)

// ─── User Stats ─────────────────────────────────────────────────────────────

// IncrementStat adds delta to a user counter and returns the new value.
// Counters never decrease; a negative delta is rejected.
func (d *DB) IncrementStat(userID string, stat domain.StatKind, delta int64) (int64, error) {
	if delta < 0 {
		return 0, domain.ErrNegativeStat
	}
	_, err := d.db.Exec(
		`INSERT INTO user_stats (user_id, stat, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, stat) DO UPDATE SET value = value + excluded.value`,
		userID, string(stat), delta,
	)
	if err != nil {
		return 0, err
	}
	return d.GetStat(userID, stat)
}

// GetStat returns a single counter value. Missing counters read as 0.
func (d *DB) GetStat(userID string, stat domain.StatKind) (int64, error) {
	var value int64
	err := d.db.QueryRow(
		`SELECT value FROM user_stats WHERE user_id = ? AND stat = ?`,
		userID, string(stat),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return value, err
}

// UserStats loads the full statistics snapshot for one user:
// all counters plus the current streak days per activity.
func (d *DB) UserStats(userID string) (domain.UserStats, error) {
	stats := domain.UserStats{
		UserID:   userID,
		Counters: make(map[domain.StatKind]int64),
		Streaks:  make(map[string]int),
	}

	rows, err := d.db.Query(`SELECT stat, value FROM user_stats WHERE user_id = ?`, userID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var stat string
		var value int64
		if err := rows.Scan(&stat, &value); err != nil {
			return stats, err
		}
		stats.Counters[domain.StatKind(stat)] = value
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	srows, err := d.db.Query(`SELECT activity, current_days FROM streaks WHERE user_id = ?`, userID)
	if err != nil {
		return stats, err
	}
	defer srows.Close()
	for srows.Next() {
		var activity string
		var days int
		if err := srows.Scan(&activity, &days); err != nil {
			return stats, err
		}
		stats.Streaks[activity] = days
	}
	return stats, srows.Err()
}

// ─── User Levels ────────────────────────────────────────────────────────────

// GetUserLevel returns the stored XP and level for a user.
// A user with no row is level 1 with 0 XP.
func (d *DB) GetUserLevel(userID string) (domain.UserLevel, error) {
	ul := domain.UserLevel{UserID: userID, Level: 1}
	err := d.db.QueryRow(
		`SELECT xp, level FROM user_levels WHERE user_id = ?`, userID,
	).Scan(&ul.TotalXP, &ul.Level)
	if err == sql.ErrNoRows {
		return ul, nil
	}
	return ul, err
}

// SetUserLevel persists XP and level for a user.
func (d *DB) SetUserLevel(userID string, xp int64, level int) error {
	_, err := d.db.Exec(
		`INSERT INTO user_levels (user_id, xp, level) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET xp=excluded.xp, level=excluded.level`,
		userID, xp, level,
	)
	return err
}

// ─── XP Events ──────────────────────────────────────────────────────────────

// InsertXPEvent appends one event to the XP log.
func (d *DB) InsertXPEvent(ev domain.XPEvent) error {
	meta, err := json.Marshal(ev.Meta)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO xp_events (id, user_id, type, amount, points, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, string(ev.Type), ev.Amount, ev.Points, string(meta), ev.CreatedAt.Unix(),
	)
	return err
}

// ListXPEvents returns the most recent events for a user, newest first.
func (d *DB) ListXPEvents(userID string, limit int) ([]domain.XPEvent, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, amount, points, metadata, created_at
		 FROM xp_events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.XPEvent
	for rows.Next() {
		var ev domain.XPEvent
		var meta string
		var createdAt int64
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Type, &ev.Amount, &ev.Points, &meta, &createdAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(meta), &ev.Meta)
		ev.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ─── Achievement Progress ───────────────────────────────────────────────────

// GetProgress returns the progress row for (user, achievement), or nil.
func (d *DB) GetProgress(userID, achievementID string) (*domain.AchievementProgress, error) {
	row := d.db.QueryRow(
		`SELECT user_id, achievement_id, progress, max_progress, completed, completed_at
		 FROM achievement_progress WHERE user_id = ? AND achievement_id = ?`,
		userID, achievementID,
	)
	return scanProgress(row)
}

// UpsertProgress writes a progress row. The completed flag and timestamp are
// sticky at the schema level: a completed row never flips back.
func (d *DB) UpsertProgress(p domain.AchievementProgress) error {
	_, err := d.db.Exec(
		`INSERT INTO achievement_progress (user_id, achievement_id, progress, max_progress, completed, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, achievement_id) DO UPDATE SET
			progress     = excluded.progress,
			max_progress = excluded.max_progress,
			completed    = MAX(completed, excluded.completed),
			completed_at = COALESCE(completed_at, excluded.completed_at)`,
		p.UserID, p.AchievementID, p.Progress, p.MaxProgress, p.Completed, nullableUnix(p.CompletedAt),
	)
	return err
}

// ListProgress returns all progress rows for a user.
func (d *DB) ListProgress(userID string) ([]domain.AchievementProgress, error) {
	rows, err := d.db.Query(
		`SELECT user_id, achievement_id, progress, max_progress, completed, completed_at
		 FROM achievement_progress WHERE user_id = ? ORDER BY achievement_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.AchievementProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// CompletedCount returns how many achievements the user has completed.
func (d *DB) CompletedCount(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM achievement_progress WHERE user_id = ? AND completed = 1`,
		userID,
	).Scan(&count)
	return count, err
}

func scanProgress(s scanner) (*domain.AchievementProgress, error) {
	var p domain.AchievementProgress
	var completedAt sql.NullInt64
	err := s.Scan(&p.UserID, &p.AchievementID, &p.Progress, &p.MaxProgress, &p.Completed, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		p.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	return &p, nil
}

// ─── Streaks ────────────────────────────────────────────────────────────────

// GetStreak loads streak state for (user, activity). Zero value if absent.
func (d *DB) GetStreak(userID, activity string) (domain.Streak, error) {
	streak := domain.Streak{UserID: userID, Activity: activity}
	var lastDate int64
	err := d.db.QueryRow(
		`SELECT current_days, longest_days, last_date, freeze_used, freeze_week
		 FROM streaks WHERE user_id = ? AND activity = ?`,
		userID, activity,
	).Scan(&streak.CurrentDays, &streak.LongestDays, &lastDate, &streak.FreezeUsed, &streak.FreezeWeekISO)
	if err == sql.ErrNoRows {
		return streak, nil
	}
	if err != nil {
		return streak, err
	}
	if lastDate > 0 {
		streak.LastDate = time.Unix(lastDate, 0).UTC()
	}
	return streak, nil
}

// SaveStreak persists streak state.
func (d *DB) SaveStreak(s domain.Streak) error {
	var lastDate int64
	if !s.LastDate.IsZero() {
		lastDate = s.LastDate.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO streaks (user_id, activity, current_days, longest_days, last_date, freeze_used, freeze_week)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, activity) DO UPDATE SET
			current_days = excluded.current_days,
			longest_days = excluded.longest_days,
			last_date    = excluded.last_date,
			freeze_used  = excluded.freeze_used,
			freeze_week  = excluded.freeze_week`,
		s.UserID, s.Activity, s.CurrentDays, s.LongestDays, lastDate, s.FreezeUsed, s.FreezeWeekISO,
	)
	return err
}

// ─── Points Ledger ──────────────────────────────────────────────────────────

// InsertLedgerEntry appends one ledger entry.
func (d *DB) InsertLedgerEntry(e domain.LedgerEntry) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO points_ledger (timestamp, type, entry_type, account, amount, event_id, description, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.Unix(), string(e.Type), string(e.EntryType), e.Account,
		e.Amount, e.EventID, e.Description, e.Balance,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AccountBalance returns the balance of an account from its latest entry.
func (d *DB) AccountBalance(account string) (int64, error) {
	var balance int64
	err := d.db.QueryRow(
		`SELECT balance FROM points_ledger WHERE account = ? ORDER BY id DESC LIMIT 1`,
		account,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return balance, err
}

// LedgerEntries returns recent entries for an account, newest first.
func (d *DB) LedgerEntries(account string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, type, entry_type, account, amount, event_id, description, balance
		 FROM points_ledger WHERE account = ? ORDER BY id DESC LIMIT ?`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		var eventID, desc sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntryType, &e.Account, &e.Amount, &eventID, &desc, &e.Balance); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		e.EventID = eventID.String
		e.Description = desc.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification row.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (user_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountSince counts a user's notifications created at or after t.
func (d *DB) NotificationCountSince(userID string, t time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND created_at >= ?`,
		userID, t.Unix(),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns unshown notifications for a user.
func (d *DB) ListPendingNotifications(userID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, title, body, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	result, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
