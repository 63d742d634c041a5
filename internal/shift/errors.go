package shift

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyOnShift rejects a shift start while another shift is open.
	ErrAlreadyOnShift = errors.New("a shift is already open")
	// ErrNoActivity rejects a check-in with no recent monitored-channel messages.
	ErrNoActivity = errors.New("no recent activity in monitored channels")
	// ErrUserNotFound means an admin query named an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// TooSoonError rejects a check-in inside the minimum gap and carries the
// remaining wait.
type TooSoonError struct {
	Remaining time.Duration
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("check-in too soon, wait %s", e.Remaining)
}
