package domain

import (
	"fmt"
	"testing"
	"time"
)

// helper: build a time in given tz
func mustLocal(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}

func TestAddMessage_CapsHistory(t *testing.T) {
	r := NewUserRecord()
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < MaxRecentMessages+20; i++ {
		r.AddMessage(TrackedMessage{
			ChatID:  1,
			Content: fmt.Sprintf("msg %d", i),
			Time:    base.Add(time.Duration(i) * time.Second),
		})
	}
	if len(r.RecentMessages) != MaxRecentMessages {
		t.Fatalf("want %d messages, got %d", MaxRecentMessages, len(r.RecentMessages))
	}
	// Oldest surviving entry is #20: the first 20 were evicted.
	if got := r.RecentMessages[0].Content; got != "msg 20" {
		t.Fatalf("want oldest msg 20, got %q", got)
	}
	if got := r.RecentMessages[len(r.RecentMessages)-1].Content; got != "msg 119" {
		t.Fatalf("want newest msg 119, got %q", got)
	}
}

func TestOpenShiftIndex_NewestOpenWins(t *testing.T) {
	r := NewUserRecord()
	end := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	r.Shifts = append(r.Shifts,
		Shift{Start: end.Add(-2 * time.Hour), End: &end},
		Shift{Start: end.Add(time.Hour)},
	)
	if got := r.OpenShiftIndex(); got != 1 {
		t.Fatalf("want open shift index 1, got %d", got)
	}
	if !r.OnShift() {
		t.Fatal("want on shift")
	}
}

func TestOpenShiftIndex_NoneOpen(t *testing.T) {
	r := NewUserRecord()
	if got := r.OpenShiftIndex(); got != -1 {
		t.Fatalf("want -1, got %d", got)
	}
}

func TestMessagesSince_Window(t *testing.T) {
	r := NewUserRecord()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	r.AddMessage(TrackedMessage{Time: now.Add(-30 * time.Minute)})
	r.AddMessage(TrackedMessage{Time: now.Add(-20 * time.Minute)})
	r.AddMessage(TrackedMessage{Time: now.Add(-5 * time.Minute)})
	if got := r.MessagesSince(now, 25*time.Minute); got != 2 {
		t.Fatalf("want 2 recent messages, got %d", got)
	}
}

func TestMissesOn_MidnightBoundary(t *testing.T) {
	tz := "Asia/Karachi"
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	r := NewUserRecord()
	// 23:59 on the 1st and 00:01 on the 2nd, local time.
	r.Missed = append(r.Missed,
		mustLocal(t, tz, 2025, time.June, 1, 23, 59),
		mustLocal(t, tz, 2025, time.June, 2, 0, 1),
	)
	day1 := mustLocal(t, tz, 2025, time.June, 1, 12, 0)
	day2 := mustLocal(t, tz, 2025, time.June, 2, 12, 0)
	if got := r.MissesOn(day1, loc); got != 1 {
		t.Fatalf("day1: want 1 miss, got %d", got)
	}
	if got := r.MissesOn(day2, loc); got != 1 {
		t.Fatalf("day2: want 1 miss, got %d", got)
	}
}

func TestCountSince(t *testing.T) {
	now := time.Date(2025, time.June, 8, 12, 0, 0, 0, time.UTC)
	ts := []time.Time{
		now.Add(-8 * 24 * time.Hour),
		now.Add(-6 * 24 * time.Hour),
		now.Add(-time.Hour),
	}
	if got := CountSince(ts, now.Add(-7*24*time.Hour)); got != 2 {
		t.Fatalf("want 2, got %d", got)
	}
}
