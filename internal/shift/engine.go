// Package shift implements the shift and check-in state machine: shift
// start/end transitions, check-in policy, and the periodic reminder sweep.
package shift

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/domain"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/metrics"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/notify"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/store"
)

// missCooldown limits how often the sweep records a miss for the same user.
const missCooldown = time.Minute

// Config holds the check-in policy constants.
type Config struct {
	// Interval is both the minimum gap between check-ins and the activity
	// lookback window.
	Interval time.Duration
	// Grace is the extra time after Interval before a miss is confirmed.
	Grace time.Duration
	// MissEscalation is the daily miss count at which reminders escalate.
	MissEscalation int
	// MonitoredChats are the chat IDs whose messages count as activity.
	MonitoredChats []int64
}

// Engine owns the user table. All operations serialize through one mutex so
// the command handlers and the sweep never interleave on shared state.
type Engine struct {
	mu       sync.Mutex
	table    store.Table
	files    *store.FileStore
	notifier notify.Notifier
	log      *zap.Logger
	cfg      Config
	loc      *time.Location

	// onShift indexes users with an open shift so the sweep only visits
	// active moderators. Maintained by StartShift/EndShift.
	onShift map[string]bool
}

// New loads the persisted table and builds the engine.
func New(files *store.FileStore, notifier notify.Notifier, log *zap.Logger, cfg Config, loc *time.Location) (*Engine, error) {
	table, err := files.Load()
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}

	onShift := make(map[string]bool)
	for id, r := range table {
		if r.OnShift() {
			onShift[id] = true
		}
	}

	return &Engine{
		table:    table,
		files:    files,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
		loc:      loc,
		onShift:  onShift,
	}, nil
}

// Location returns the fixed civil timezone all policy decisions use.
func (e *Engine) Location() *time.Location { return e.loc }

// Interval returns the configured check-in interval.
func (e *Engine) Interval() time.Duration { return e.cfg.Interval }

// Now returns the current instant in the engine's timezone.
func (e *Engine) Now() time.Time { return time.Now().In(e.loc) }

// UserCount returns the number of known user records.
func (e *Engine) UserCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.table)
}

// persist flushes the whole table. The in-memory mutation is kept even when
// the write fails; the caller surfaces the error.
func (e *Engine) persist() error {
	if err := e.files.Save(e.table); err != nil {
		metrics.PersistFailuresTotal.Inc()
		return err
	}
	return nil
}

func (e *Engine) record(userID int64, name string) (*domain.UserRecord, string) {
	key := store.Key(userID)
	r := e.table.GetOrCreate(key)
	if name != "" {
		r.Name = name
	}
	return r, key
}

// StartShift opens a new shift. A user with an open shift is rejected with
// ErrAlreadyOnShift rather than accumulating concurrent shifts.
func (e *Engine) StartShift(userID int64, name string, now time.Time) (domain.Shift, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, key := e.record(userID, name)
	if r.OnShift() {
		return domain.Shift{}, ErrAlreadyOnShift
	}

	s := domain.Shift{Start: now}
	r.Shifts = append(r.Shifts, s)
	e.onShift[key] = true

	if err := e.persist(); err != nil {
		return domain.Shift{}, err
	}

	e.sendLog(notify.Payload{
		Kind:       notify.KindShiftStarted,
		UserID:     userID,
		UserName:   r.Name,
		Time:       now,
		ShiftStart: now,
	})
	e.log.Info("shift started", zap.Int64("user", userID), zap.String("name", r.Name))
	return s, nil
}

// EndSummary describes the outcome of EndShift.
type EndSummary struct {
	Start       time.Time
	End         time.Time
	Duration    time.Duration
	NoOpenShift bool
}

// EndShift closes the most recently opened open shift. Ending with no open
// shift still succeeds and reports NoOpenShift, as moderators expect the
// command to be idempotent.
func (e *Engine) EndShift(userID int64, name string, now time.Time) (EndSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, key := e.record(userID, name)
	idx := r.OpenShiftIndex()
	if idx < 0 {
		return EndSummary{End: now, NoOpenShift: true}, nil
	}

	end := now
	r.Shifts[idx].End = &end
	delete(e.onShift, key)

	if err := e.persist(); err != nil {
		return EndSummary{}, err
	}

	sum := EndSummary{
		Start:    r.Shifts[idx].Start,
		End:      now,
		Duration: now.Sub(r.Shifts[idx].Start),
	}
	e.sendLog(notify.Payload{
		Kind:       notify.KindShiftEnded,
		UserID:     userID,
		UserName:   r.Name,
		Time:       now,
		ShiftStart: sum.Start,
		ShiftEnd:   now,
	})
	e.log.Info("shift ended",
		zap.Int64("user", userID),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

// RecordMessage tracks one message observed in a monitored chat.
func (e *Engine) RecordMessage(userID int64, name string, chatID int64, content string, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, _ := e.record(userID, name)
	r.AddMessage(domain.TrackedMessage{ChatID: chatID, Content: content, Time: now})
	return e.persist()
}

// CanCheckIn reports whether the user may check in now, and if not, how long
// they must still wait.
func (e *Engine) CanCheckIn(userID int64, now time.Time) (bool, time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canCheckIn(userID, now)
}

func (e *Engine) canCheckIn(userID int64, now time.Time) (bool, time.Duration) {
	r, ok := e.table[store.Key(userID)]
	if !ok {
		return true, 0
	}
	last, ok := r.LastCheckin()
	if !ok {
		return true, 0
	}
	since := now.Sub(last)
	if since >= e.cfg.Interval {
		return true, 0
	}
	return false, e.cfg.Interval - since
}

// RecentActivity counts the user's monitored messages inside the activity
// window ending at now.
func (e *Engine) RecentActivity(userID int64, now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.table[store.Key(userID)]
	if !ok {
		return 0
	}
	return r.MessagesSince(now, e.cfg.Interval)
}

// CheckInSummary describes a successful check-in.
type CheckInSummary struct {
	Time          time.Time
	ActivityCount int
	TodayMissed   int
	NextAllowed   time.Time
}

// CheckIn records a check-in if the minimum gap has elapsed and the user has
// recent activity in the monitored chats. Distinct failures: *TooSoonError
// and ErrNoActivity.
func (e *Engine) CheckIn(userID int64, name string, now time.Time) (CheckInSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ok, remaining := e.canCheckIn(userID, now); !ok {
		return CheckInSummary{}, &TooSoonError{Remaining: remaining}
	}

	r, _ := e.record(userID, name)
	activity := r.MessagesSince(now, e.cfg.Interval)
	if activity == 0 {
		return CheckInSummary{}, ErrNoActivity
	}

	r.Checkins = append(r.Checkins, now)
	if err := e.persist(); err != nil {
		return CheckInSummary{}, err
	}

	metrics.CheckinsTotal.Inc()
	e.log.Info("check-in recorded", zap.Int64("user", userID), zap.Int("activity", activity))
	return CheckInSummary{
		Time:          now,
		ActivityCount: activity,
		TodayMissed:   r.MissesOn(now, e.loc),
		NextAllowed:   now.Add(e.cfg.Interval),
	}, nil
}

// DailyMissCount counts misses recorded on now's calendar date in the fixed
// timezone.
func (e *Engine) DailyMissCount(userID int64, now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.table[store.Key(userID)]
	if !ok {
		return 0
	}
	return r.MissesOn(now, e.loc)
}

// Sweep is the periodic reminder pass. It visits only users with an open
// shift. A user past the interval but inside the grace window gets a reminder
// (check-in due, or activity required when they have been silent); past the
// grace window a miss is recorded, at most once per cooldown, and the miss
// notification escalates once today's count reaches the threshold. Delivery
// and persistence failures are logged per user and never stop the pass.
func (e *Engine) Sweep(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics.SweepsTotal.Inc()

	for key := range e.onShift {
		r, ok := e.table[key]
		if !ok || !r.OnShift() {
			delete(e.onShift, key)
			continue
		}

		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			e.log.Warn("bad user key in table", zap.String("key", key))
			continue
		}

		// Anchor on the last check-in; a fresh shift with no check-ins yet
		// is anchored on its start.
		anchor := r.Shifts[r.OpenShiftIndex()].Start
		var lastCheckin *time.Time
		if last, ok := r.LastCheckin(); ok {
			anchor = last
			t := last
			lastCheckin = &t
		}

		overdueBy := now.Sub(anchor)
		if overdueBy <= e.cfg.Interval {
			continue
		}

		if overdueBy > e.cfg.Interval+e.cfg.Grace {
			e.recordMiss(userID, r, lastCheckin, now)
			continue
		}

		// Inside the grace window: nudge, do not penalize yet.
		activity := r.MessagesSince(now, e.cfg.Interval)
		kind := notify.KindCheckInDue
		if activity == 0 {
			kind = notify.KindActivityRequired
		}
		metrics.RemindersTotal.Inc()
		e.sendUser(userID, notify.Payload{
			Kind:           kind,
			UserID:         userID,
			UserName:       r.Name,
			Time:           now,
			LastCheckin:    lastCheckin,
			ActivityCount:  activity,
			GraceRemaining: e.cfg.Interval + e.cfg.Grace - overdueBy,
			MonitoredChats: e.cfg.MonitoredChats,
		})
	}
}

func (e *Engine) recordMiss(userID int64, r *domain.UserRecord, lastCheckin *time.Time, now time.Time) {
	if last, ok := r.LastMissed(); ok && now.Sub(last) < missCooldown {
		return
	}

	r.Missed = append(r.Missed, now)
	metrics.MissesTotal.Inc()
	if err := e.persist(); err != nil {
		e.log.Error("persist after miss failed", zap.Int64("user", userID), zap.Error(err))
	}

	today := r.MissesOn(now, e.loc)
	e.sendUser(userID, notify.Payload{
		Kind:           notify.KindMissedCheckIn,
		UserID:         userID,
		UserName:       r.Name,
		Time:           now,
		LastCheckin:    lastCheckin,
		MonitoredChats: e.cfg.MonitoredChats,
		TodayMissed:    today,
		Escalated:      today >= e.cfg.MissEscalation,
	})
	e.log.Info("missed check-in recorded",
		zap.Int64("user", userID),
		zap.Int("today", today),
	)
}

func (e *Engine) sendUser(userID int64, p notify.Payload) {
	if err := e.notifier.NotifyUser(userID, p); err != nil {
		metrics.DeliveryFailuresTotal.Inc()
		e.log.Warn("notification delivery failed", zap.Int64("user", userID), zap.Error(err))
	}
}

func (e *Engine) sendLog(p notify.Payload) {
	if err := e.notifier.NotifyLog(p); err != nil {
		metrics.DeliveryFailuresTotal.Inc()
		e.log.Warn("shift log delivery failed", zap.Error(err))
	}
}
