package shift

import (
	"strconv"
	"strings"
	"time"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/domain"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/store"
)

// Stats are the counters a moderator sees for themselves.
type Stats struct {
	Name           string
	OnShift        bool
	TotalShifts    int
	TotalCheckins  int
	TotalMissed    int
	RecentActivity int
}

// UserReport extends Stats with recent history for the admin view.
type UserReport struct {
	UserID int64
	Stats
	RecentShifts   []domain.Shift // newest last, at most 5
	RecentCheckins []time.Time    // newest last, at most 10
}

// WeeklyEntry is one user's trailing-7-day aggregate.
type WeeklyEntry struct {
	UserID   int64
	Name     string
	Checkins int
	Missed   int
}

func statsOf(r *domain.UserRecord, now time.Time, window time.Duration) Stats {
	return Stats{
		Name:           r.Name,
		OnShift:        r.OnShift(),
		TotalShifts:    len(r.Shifts),
		TotalCheckins:  len(r.Checkins),
		TotalMissed:    len(r.Missed),
		RecentActivity: r.MessagesSince(now, window),
	}
}

// Stats returns the user's own counters. An unknown user gets zeroes.
func (e *Engine) Stats(userID int64, now time.Time) Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.table[store.Key(userID)]
	if !ok {
		return Stats{}
	}
	return statsOf(r, now, e.cfg.Interval)
}

func reportOf(userID int64, r *domain.UserRecord, now time.Time, window time.Duration) UserReport {
	rep := UserReport{UserID: userID, Stats: statsOf(r, now, window)}
	if n := len(r.Shifts); n > 0 {
		from := n - 5
		if from < 0 {
			from = 0
		}
		rep.RecentShifts = append(rep.RecentShifts, r.Shifts[from:]...)
	}
	if n := len(r.Checkins); n > 0 {
		from := n - 10
		if from < 0 {
			from = 0
		}
		rep.RecentCheckins = append(rep.RecentCheckins, r.Checkins[from:]...)
	}
	return rep
}

// AdminStats returns the detailed report for one user.
func (e *Engine) AdminStats(userID int64, now time.Time) (UserReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.table[store.Key(userID)]
	if !ok {
		return UserReport{}, ErrUserNotFound
	}
	return reportOf(userID, r, now, e.cfg.Interval), nil
}

// AllStats returns reports for every known user, for the no-target admin view.
func (e *Engine) AllStats(now time.Time) []UserReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	reports := make([]UserReport, 0, len(e.table))
	for key, r := range e.table {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		reports = append(reports, reportOf(userID, r, now, e.cfg.Interval))
	}
	return reports
}

// WeeklyReport aggregates check-ins and misses over the trailing 7 days for
// every known user.
func (e *Engine) WeeklyReport(now time.Time) []WeeklyEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := now.Add(-7 * 24 * time.Hour)
	entries := make([]WeeklyEntry, 0, len(e.table))
	for key, r := range e.table {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, WeeklyEntry{
			UserID:   userID,
			Name:     r.Name,
			Checkins: domain.CountSince(r.Checkins, cutoff),
			Missed:   domain.CountSince(r.Missed, cutoff),
		})
	}
	return entries
}

// FindUser resolves an admin-supplied target: a numeric user ID or a display
// name, with or without a leading @.
func (e *Engine) FindUser(query string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	query = strings.TrimPrefix(strings.TrimSpace(query), "@")
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		if _, ok := e.table[store.Key(id)]; ok {
			return id, nil
		}
		return 0, ErrUserNotFound
	}
	for key, r := range e.table {
		if strings.EqualFold(r.Name, query) {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			return id, nil
		}
	}
	return 0, ErrUserNotFound
}
