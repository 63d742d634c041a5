// Package notify defines the typed notification payloads the engine emits.
// Rendering payloads into platform messages is the transport's job; the
// engine only decides what happened.
package notify

import "time"

// Kind identifies the event a payload describes.
type Kind string

const (
	KindShiftStarted     Kind = "shift_started"
	KindShiftEnded       Kind = "shift_ended"
	KindCheckInDue       Kind = "checkin_due"
	KindActivityRequired Kind = "activity_required"
	KindMissedCheckIn    Kind = "missed_checkin"
)

// Payload carries the structured fields of one notification.
type Payload struct {
	Kind     Kind
	UserID   int64
	UserName string
	Time     time.Time

	// Shift lifecycle.
	ShiftStart  time.Time
	ShiftEnd    time.Time
	NoOpenShift bool // shift_end invoked with nothing to close

	// Check-in reminders.
	LastCheckin    *time.Time
	ActivityCount  int
	GraceRemaining time.Duration
	MonitoredChats []int64

	// Misses.
	TodayMissed int
	Escalated   bool
}

// Notifier delivers payloads. Implementations must be safe to call from the
// sweep loop; a delivery error is reported back but never aborts the caller.
type Notifier interface {
	// NotifyUser delivers a payload directly to the user it concerns.
	NotifyUser(userID int64, p Payload) error
	// NotifyLog delivers a payload to the shift-log channel.
	NotifyLog(p Payload) error
}
