package domain

import "time"

// MaxRecentMessages caps the per-user message history. Oldest entries are
// dropped first.
const MaxRecentMessages = 100

// Shift is one declared duty period. End is nil while the shift is open.
type Shift struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// Open reports whether the shift has not been ended yet.
func (s Shift) Open() bool { return s.End == nil }

// TrackedMessage is one message observed in a monitored chat.
type TrackedMessage struct {
	ChatID  int64     `json:"chat_id"`
	Content string    `json:"content"`
	Time    time.Time `json:"timestamp"`
}

// UserRecord is the full per-moderator history. Records are created lazily on
// first reference and never deleted.
type UserRecord struct {
	Name           string           `json:"name,omitempty"`
	Shifts         []Shift          `json:"shifts"`
	Checkins       []time.Time      `json:"checkins"`
	Missed         []time.Time      `json:"missed"`
	RecentMessages []TrackedMessage `json:"recent_messages"`
}

// NewUserRecord returns an empty record with all sequences initialized, so a
// fresh record serializes as empty arrays rather than nulls.
func NewUserRecord() *UserRecord {
	return &UserRecord{
		Shifts:         []Shift{},
		Checkins:       []time.Time{},
		Missed:         []time.Time{},
		RecentMessages: []TrackedMessage{},
	}
}

// OpenShiftIndex returns the index of the most recently opened shift that has
// no end, scanning newest to oldest, or -1 if the user is off shift.
func (r *UserRecord) OpenShiftIndex() int {
	for i := len(r.Shifts) - 1; i >= 0; i-- {
		if r.Shifts[i].Open() {
			return i
		}
	}
	return -1
}

// OnShift reports whether the user currently has an open shift.
func (r *UserRecord) OnShift() bool { return r.OpenShiftIndex() >= 0 }

// LastCheckin returns the most recent check-in time, or false if the user has
// never checked in.
func (r *UserRecord) LastCheckin() (time.Time, bool) {
	if len(r.Checkins) == 0 {
		return time.Time{}, false
	}
	return r.Checkins[len(r.Checkins)-1], true
}

// LastMissed returns the most recent recorded miss, or false if none exist.
func (r *UserRecord) LastMissed() (time.Time, bool) {
	if len(r.Missed) == 0 {
		return time.Time{}, false
	}
	return r.Missed[len(r.Missed)-1], true
}

// AddMessage appends a tracked message and trims the history to
// MaxRecentMessages, dropping the oldest entries.
func (r *UserRecord) AddMessage(m TrackedMessage) {
	r.RecentMessages = append(r.RecentMessages, m)
	if n := len(r.RecentMessages); n > MaxRecentMessages {
		r.RecentMessages = r.RecentMessages[n-MaxRecentMessages:]
	}
}

// MessagesSince counts tracked messages with Time inside (now-window, now].
func (r *UserRecord) MessagesSince(now time.Time, window time.Duration) int {
	count := 0
	for _, m := range r.RecentMessages {
		if d := now.Sub(m.Time); d >= 0 && d <= window {
			count++
		}
	}
	return count
}

// MissesOn counts recorded misses whose calendar date in loc matches now's.
func (r *UserRecord) MissesOn(now time.Time, loc *time.Location) int {
	y, m, d := now.In(loc).Date()
	count := 0
	for _, t := range r.Missed {
		ty, tm, td := t.In(loc).Date()
		if ty == y && tm == m && td == d {
			count++
		}
	}
	return count
}

// CountSince counts timestamps in ts strictly after cutoff.
func CountSince(ts []time.Time, cutoff time.Time) int {
	count := 0
	for _, t := range ts {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}
