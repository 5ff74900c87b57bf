package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/takato23/cocina/internal/domain"
)

// ─── Events ─────────────────────────────────────────────────────────────────

type recordEventRequest struct {
	UserID string           `json:"user_id"`
	Type   domain.EventType `json:"type"`
	Meta   domain.EventMeta `json:"meta"`
}

// POST /api/v1/events
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req recordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	result, err := s.deps.Engine.RecordEvent(req.UserID, req.Type, req.Meta)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ─── Levels / Stats ─────────────────────────────────────────────────────────

type levelResponse struct {
	UserID      string  `json:"user_id"`
	Level       int     `json:"level"`
	TotalXP     int64   `json:"total_xp"`
	XPToNext    int64   `json:"xp_to_next"`
	ProgressPct float64 `json:"progress_pct"`
}

// GET /api/v1/users/{userID}/level
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	current, err := s.deps.Levels.CurrentLevel(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	toNext, err := s.deps.Levels.XPToNext(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pct, err := s.deps.Levels.Progress(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, levelResponse{
		UserID:      userID,
		Level:       current.Level,
		TotalXP:     current.TotalXP,
		XPToNext:    toNext,
		ProgressPct: pct,
	})
}

// GET /api/v1/users/{userID}/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stats, err := s.deps.Engine.Stats(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ─── Achievements ───────────────────────────────────────────────────────────

type achievementView struct {
	domain.AchievementDef
	Progress    int64                `json:"progress"`
	MaxProgress int64                `json:"max_progress"`
	Pct         float64              `json:"pct"`
	State       domain.ProgressState `json:"state"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// GET /api/v1/achievements
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": s.deps.Achievements.Definitions(),
		"total":        s.deps.Achievements.TotalCount(),
	})
}

// GET /api/v1/users/{userID}/achievements
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rows, err := s.deps.Achievements.Progress(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byID := make(map[string]domain.AchievementProgress, len(rows))
	for _, p := range rows {
		byID[p.AchievementID] = p
	}

	defs := s.deps.Achievements.Definitions()
	views := make([]achievementView, 0, len(defs))
	completed := 0
	for _, def := range defs {
		v := achievementView{AchievementDef: def, State: domain.ProgressNotStarted}
		if p, ok := byID[def.ID]; ok {
			v.Progress = p.Progress
			v.MaxProgress = p.MaxProgress
			v.Pct = p.Pct()
			v.State = p.State()
			if p.Completed {
				completed++
				at := p.CompletedAt
				v.CompletedAt = &at
			}
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": views,
		"completed":    completed,
		"total":        len(defs),
	})
}

// POST /api/v1/users/{userID}/achievements/check
func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := s.deps.Engine.CheckAchievements(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ─── Streaks ────────────────────────────────────────────────────────────────

// GET /api/v1/users/{userID}/streaks/{activity}
func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	activity := chi.URLParam(r, "activity")

	streak, err := s.deps.Streaks.Current(userID, activity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

// ─── Points ─────────────────────────────────────────────────────────────────

// GET /api/v1/users/{userID}/points
func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balance, err := s.deps.Points.Balance(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	history, err := s.deps.Points.History(userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"balance": balance,
		"history": history,
	})
}

type spendRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// POST /api/v1/users/{userID}/points/spend
func (s *Server) handleSpendPoints(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := s.deps.Points.Spend(userID, req.Amount, req.Reason); err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	balance, err := s.deps.Points.Balance(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

// ─── Notifications ──────────────────────────────────────────────────────────

// GET /api/v1/users/{userID}/notifications
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": []domain.Notification{}})
		return
	}
	userID := chi.URLParam(r, "userID")

	pending, err := s.deps.Notifications.Pending(userID, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": pending})
}

// POST /api/v1/notifications/{id}/shown
func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeError(w, http.StatusNotFound, "notifications disabled")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := s.deps.Notifications.MarkShown(id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Summary / Health ───────────────────────────────────────────────────────

// GET /api/v1/users/{userID}/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	current, err := s.deps.Levels.CurrentLevel(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	toNext, err := s.deps.Levels.XPToNext(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pct, err := s.deps.Levels.Progress(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	completed, err := s.deps.Achievements.CompletedCount(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	balance, err := s.deps.Points.Balance(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := s.deps.Engine.Stats(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"level": levelResponse{
			UserID:      userID,
			Level:       current.Level,
			TotalXP:     current.TotalXP,
			XPToNext:    toNext,
			ProgressPct: pct,
		},
		"achievements": map[string]interface{}{
			"completed": completed,
			"total":     s.deps.Achievements.TotalCount(),
		},
		"points":  balance,
		"streaks": stats.Streaks,
	})
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	var checks []interface{}
	if s.deps.Health != nil {
		for _, st := range s.deps.Health.Statuses() {
			checks = append(checks, st)
		}
		if !s.deps.Health.IsHealthy() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
