package engagement

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/infra/metrics"
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// NotificationSink receives unlock and level-up events for delivery.
// Fire-and-forget from the engine's perspective.
type NotificationSink interface {
	Create(n domain.Notification) (int64, error)
}

// NotificationService persists user notifications under a delivery policy:
// a per-user daily cap and a quiet-hours window. Suppression is silent
// (returns id 0) and counted on a metric.
type NotificationService struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
}

// NewNotificationService creates a notification service with the default
// policy.
func NewNotificationService(db *sqlite.DB) *NotificationService {
	return &NotificationService{db: db, policy: domain.DefaultNotificationPolicy()}
}

// NewNotificationServiceWithPolicy creates a service with a custom policy.
func NewNotificationServiceWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy) *NotificationService {
	return &NotificationService{db: db, policy: policy}
}

// Create stores a notification if policy allows it. Returns the notification
// ID, or 0 if suppressed.
func (n *NotificationService) Create(notif domain.Notification) (int64, error) {
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	startOfDay := notif.CreatedAt.Truncate(24 * time.Hour)
	todayCount, err := n.db.NotificationCountSince(notif.UserID, startOfDay)
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if todayCount >= n.policy.MaxPerDay {
		metrics.NotificationsSuppressed.WithLabelValues("daily_limit").Inc()
		return 0, nil
	}

	if n.isQuietHour(notif.CreatedAt) {
		metrics.NotificationsSuppressed.WithLabelValues("quiet_hours").Inc()
		return 0, nil
	}

	notif.Shown = false
	id, err := n.db.InsertNotification(notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Pending returns unshown notifications for a user.
func (n *NotificationService) Pending(userID string, limit int) ([]domain.Notification, error) {
	return n.db.ListPendingNotifications(userID, limit)
}

// MarkShown marks a notification as shown.
func (n *NotificationService) MarkShown(id int64) error {
	return n.db.MarkNotificationShown(id)
}

// Policy returns the active delivery policy.
func (n *NotificationService) Policy() domain.NotificationPolicy {
	return n.policy
}

// isQuietHour returns true if t falls within the quiet-hours window,
// including windows that wrap midnight (e.g. 22:00–08:00).
func (n *NotificationService) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(n.policy.QuietStart)
	endHour, endMin := parseHHMM(n.policy.QuietEnd)

	timeMinutes := t.Hour()*60 + t.Minute()
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes > endMinutes {
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}
