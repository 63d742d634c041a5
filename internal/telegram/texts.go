package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/notify"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/shift"
)

const timeLayout = "02 January 2006, 03:04 PM MST"

const helpText = `🤖 Mod Shift Bot Commands:

📋 Basic:
/shift_start — start your mod shift
/shift_end — end your mod shift
/checkin — check in (must be active in monitored channels)
/my_stats — see your own stats

👑 Admin:
/admin_stats [user] — detailed stats for one or all mods
/weekly_report — 7-day report for all mods

🔧 Utility:
/help — this message
/ping — test if the bot is alive
/debug — diagnostics

⚠️ Check-in rules:
• Send messages in the monitored channels, then /checkin
• One check-in per interval; the bot reminds you when you are due`

const (
	notModText   = "❌ You are not a mod. This command needs the moderator role."
	notAdminText = "❌ You need administrator permissions to use this command."
	pongText     = "🏓 Pong! Mod bot is working!"
)

func formatTime(t time.Time) string { return t.Format(timeLayout) }

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func shiftStartedText(s time.Time, interval time.Duration) string {
	return fmt.Sprintf("✅ Shift Started!\n🕐 %s\n\n⚠️ Remember: send messages in the monitored channels and check in every %s!",
		formatTime(s), formatDuration(interval))
}

func shiftEndedText(sum shift.EndSummary) string {
	if sum.NoOpenShift {
		return fmt.Sprintf("🔴 Shift Ended!\n🕐 %s\n(no open shift was found)", formatTime(sum.End))
	}
	return fmt.Sprintf("🔴 Shift Ended!\n🕐 %s\n⏱ Duration: %s", formatTime(sum.End), formatDuration(sum.Duration))
}

func checkInSuccessText(sum shift.CheckInSummary) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "✅ Check-in Successful!\n")
	fmt.Fprintf(b, "🕐 Time: %s\n", formatTime(sum.Time))
	fmt.Fprintf(b, "📝 Recent Activity: %d message(s) in monitored channels\n", sum.ActivityCount)
	if sum.TodayMissed > 0 {
		fmt.Fprintf(b, "❌ Missed today: %d\n", sum.TodayMissed)
	}
	fmt.Fprintf(b, "⏰ Next check-in available at %s", formatTime(sum.NextAllowed))
	return b.String()
}

func tooSoonText(remaining time.Duration) string {
	return fmt.Sprintf("⏰ Please wait before checking in again!\n⏳ You can check in again in %s", formatDuration(remaining))
}

func noActivityText() string {
	return "❌ Check-in Failed!\n\n⚠️ You must send at least one message in the monitored channels within the check-in window first.\n\n📝 Send a message there and try again."
}

func statsText(name string, s shift.Stats) string {
	onShift := "no"
	if s.OnShift {
		onShift = "yes"
	}
	return fmt.Sprintf("📊 Stats for %s\n🔄 Total Shifts: %d\n✅ Check-ins: %d\n❌ Missed: %d\n📝 Recent Activity: %d messages\n🟢 On shift: %s",
		name, s.TotalShifts, s.TotalCheckins, s.TotalMissed, s.RecentActivity, onShift)
}

func adminReportText(rep shift.UserReport) string {
	b := &strings.Builder{}
	name := rep.Name
	if name == "" {
		name = fmt.Sprintf("user %d", rep.UserID)
	}
	fmt.Fprintf(b, "👑 Admin Report: %s\n", name)
	fmt.Fprintf(b, "🔄 Shifts: %d  ✅ Check-ins: %d  ❌ Missed: %d  📝 Recent: %d msgs\n",
		rep.TotalShifts, rep.TotalCheckins, rep.TotalMissed, rep.RecentActivity)

	if len(rep.RecentShifts) > 0 {
		fmt.Fprintf(b, "\n📅 Recent Shifts:\n")
		for i := len(rep.RecentShifts) - 1; i >= 0; i-- {
			s := rep.RecentShifts[i]
			end := "🔄 ONGOING"
			if s.End != nil {
				end = formatTime(*s.End)
			}
			fmt.Fprintf(b, "🟢 %s → %s\n", formatTime(s.Start), end)
		}
	}
	if len(rep.RecentCheckins) > 0 {
		fmt.Fprintf(b, "\n⏰ Recent Check-ins:\n")
		for i := len(rep.RecentCheckins) - 1; i >= 0; i-- {
			fmt.Fprintf(b, "✅ %s\n", formatTime(rep.RecentCheckins[i]))
		}
	}
	return b.String()
}

func weeklyReportText(entries []shift.WeeklyEntry) string {
	if len(entries) == 0 {
		return "📊 Weekly Mod Report\nNo tracked moderators yet."
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "📊 Weekly Mod Report (last 7 days)\n")
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("user %d", e.UserID)
		}
		fmt.Fprintf(b, "\n👤 %s\n✅ Check-ins: %d\n❌ Missed: %d\n", name, e.Checkins, e.Missed)
	}
	return b.String()
}

func debugText(uptime time.Duration, users int) string {
	return fmt.Sprintf("🔧 Debug\n⏱ Uptime: %s\n👥 Tracked users: %d", formatDuration(uptime), users)
}

func monitoredChatsText(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}

// renderPayload turns an engine notification into the message text sent to
// the user or the shift log.
func renderPayload(p notify.Payload) string {
	lastCheckin := "None"
	if p.LastCheckin != nil {
		lastCheckin = formatTime(*p.LastCheckin)
	}

	switch p.Kind {
	case notify.KindShiftStarted:
		return fmt.Sprintf("🔵 %s started their shift at %s", p.UserName, formatTime(p.ShiftStart))

	case notify.KindShiftEnded:
		return fmt.Sprintf("🔴 %s ended their shift at %s", p.UserName, formatTime(p.ShiftEnd))

	case notify.KindCheckInDue:
		return fmt.Sprintf("⏰ Check-in Reminder!\nYou've been active in monitored channels. Please check in now!\n🕐 Last Check-in: %s\n📝 Recent Activity: %d messages\n⏳ Grace period remaining: %s\n✅ Use /checkin to check in",
			lastCheckin, p.ActivityCount, formatDuration(p.GraceRemaining))

	case notify.KindActivityRequired:
		return fmt.Sprintf("⚠️ Activity Required!\nYou need to send messages in monitored channels before checking in!\n🕐 Last Check-in: %s\n📋 Monitored Channels: %s\n⏳ Grace period remaining: %s\n✅ After sending a message, use /checkin",
			lastCheckin, monitoredChatsText(p.MonitoredChats), formatDuration(p.GraceRemaining))

	case notify.KindMissedCheckIn:
		if p.Escalated {
			return fmt.Sprintf("🚨 Missed Check-in #%d today!\nThis is being logged. Repeated misses are reported to the admins.\n🕐 Last Check-in: %s\n✅ Check in with /checkin as soon as possible",
				p.TodayMissed, lastCheckin)
		}
		return fmt.Sprintf("❌ Missed Check-in!\nYour check-in window (plus grace period) has passed.\n🕐 Last Check-in: %s\n❌ Missed today: %d\n✅ Check in with /checkin as soon as possible",
			lastCheckin, p.TodayMissed)

	default:
		return fmt.Sprintf("%s at %s", p.Kind, formatTime(p.Time))
	}
}
