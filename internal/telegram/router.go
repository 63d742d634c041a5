package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/notify"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/shift"
)

// Options are the platform-side settings the router needs.
type Options struct {
	ModeratorIDs   []int64
	AdminIDs       []int64
	MonitoredChats []int64
	ShiftLogChatID int64 // 0 disables shift-log notifications
}

// Router wires Telegram updates to engine operations and renders engine
// notifications back into messages. It also satisfies notify.Notifier.
type Router struct {
	bot    *tgbotapi.BotAPI
	log    *zap.Logger
	engine *shift.Engine

	mods      map[int64]bool
	admins    map[int64]bool
	monitored map[int64]bool
	logChatID int64
	started   time.Time
}

// NewRouter creates the router. The engine is attached afterwards with
// SetEngine because the engine itself needs the router as its notifier.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, opts Options) *Router {
	toSet := func(ids []int64) map[int64]bool {
		m := make(map[int64]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		return m
	}
	return &Router{
		bot:       bot,
		log:       log,
		mods:      toSet(opts.ModeratorIDs),
		admins:    toSet(opts.AdminIDs),
		monitored: toSet(opts.MonitoredChats),
		logChatID: opts.ShiftLogChatID,
		started:   time.Now(),
	}
}

// SetEngine attaches the engine after construction.
func (r *Router) SetEngine(e *shift.Engine) { r.engine = e }

// NotifyUser sends a rendered payload directly to the user. In Telegram a
// private chat ID equals the user ID.
func (r *Router) NotifyUser(userID int64, p notify.Payload) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(userID, renderPayload(p)))
	return err
}

// NotifyLog sends a rendered payload to the shift-log chat.
func (r *Router) NotifyLog(p notify.Payload) error {
	if r.logChatID == 0 {
		return nil
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(r.logChatID, renderPayload(p)))
	return err
}

func (r *Router) reply(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("reply failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HandleUpdate routes one update: monitored-chat messages feed the activity
// tracker, commands dispatch to the engine.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	now := r.engine.Now()

	if !msg.IsCommand() {
		if r.monitored[msg.Chat.ID] && msg.Text != "" {
			err := r.engine.RecordMessage(msg.From.ID, displayName(msg.From), msg.Chat.ID, msg.Text, now)
			if err != nil {
				r.log.Error("record message failed", zap.Int64("user", msg.From.ID), zap.Error(err))
			}
		}
		return
	}

	switch msg.Command() {
	case "shift_start":
		r.handleShiftStart(msg, now)
	case "shift_end":
		r.handleShiftEnd(msg, now)
	case "checkin":
		r.handleCheckIn(msg, now)
	case "my_stats":
		r.handleMyStats(msg, now)
	case "admin_stats":
		r.handleAdminStats(msg, now)
	case "weekly_report":
		r.handleWeeklyReport(msg, now)
	case "help":
		r.reply(msg.Chat.ID, helpText)
	case "ping", "test":
		r.reply(msg.Chat.ID, pongText)
	case "debug":
		r.handleDebug(msg)
	default:
		// Unknown command: stay quiet, the chat may host other bots.
	}
}

func (r *Router) requireMod(msg *tgbotapi.Message) bool {
	if r.mods[msg.From.ID] {
		return true
	}
	r.reply(msg.Chat.ID, notModText)
	return false
}

func (r *Router) requireAdmin(msg *tgbotapi.Message) bool {
	if r.admins[msg.From.ID] {
		return true
	}
	r.reply(msg.Chat.ID, notAdminText)
	return false
}

func (r *Router) handleShiftStart(msg *tgbotapi.Message, now time.Time) {
	if !r.requireMod(msg) {
		return
	}
	s, err := r.engine.StartShift(msg.From.ID, displayName(msg.From), now)
	if errors.Is(err, shift.ErrAlreadyOnShift) {
		r.reply(msg.Chat.ID, "⚠️ You already have an open shift. End it with /shift_end first.")
		return
	}
	if err != nil {
		r.log.Error("start shift failed", zap.Int64("user", msg.From.ID), zap.Error(err))
		r.reply(msg.Chat.ID, "❌ Could not start your shift, please try again.")
		return
	}
	r.reply(msg.Chat.ID, shiftStartedText(s.Start, r.engine.Interval()))
}

func (r *Router) handleShiftEnd(msg *tgbotapi.Message, now time.Time) {
	if !r.requireMod(msg) {
		return
	}
	sum, err := r.engine.EndShift(msg.From.ID, displayName(msg.From), now)
	if err != nil {
		r.log.Error("end shift failed", zap.Int64("user", msg.From.ID), zap.Error(err))
		r.reply(msg.Chat.ID, "❌ Could not end your shift, please try again.")
		return
	}
	r.reply(msg.Chat.ID, shiftEndedText(sum))
}

func (r *Router) handleCheckIn(msg *tgbotapi.Message, now time.Time) {
	if !r.requireMod(msg) {
		return
	}
	sum, err := r.engine.CheckIn(msg.From.ID, displayName(msg.From), now)
	var tooSoon *shift.TooSoonError
	switch {
	case errors.As(err, &tooSoon):
		r.reply(msg.Chat.ID, tooSoonText(tooSoon.Remaining))
	case errors.Is(err, shift.ErrNoActivity):
		r.reply(msg.Chat.ID, noActivityText())
	case err != nil:
		r.log.Error("check-in failed", zap.Int64("user", msg.From.ID), zap.Error(err))
		r.reply(msg.Chat.ID, "❌ Could not record your check-in, please try again.")
	default:
		r.reply(msg.Chat.ID, checkInSuccessText(sum))
	}
}

func (r *Router) handleMyStats(msg *tgbotapi.Message, now time.Time) {
	s := r.engine.Stats(msg.From.ID, now)
	r.reply(msg.Chat.ID, statsText(displayName(msg.From), s))
}

func (r *Router) handleAdminStats(msg *tgbotapi.Message, now time.Time) {
	if !r.requireAdmin(msg) {
		return
	}
	target := strings.TrimSpace(msg.CommandArguments())
	if target == "" {
		reports := r.engine.AllStats(now)
		if len(reports) == 0 {
			r.reply(msg.Chat.ID, "No tracked moderators yet.")
			return
		}
		for _, rep := range reports {
			r.reply(msg.Chat.ID, adminReportText(rep))
		}
		return
	}

	userID, err := r.engine.FindUser(target)
	if errors.Is(err, shift.ErrUserNotFound) {
		r.reply(msg.Chat.ID, "❌ User "+target+" not found.")
		return
	}
	rep, err := r.engine.AdminStats(userID, now)
	if err != nil {
		r.reply(msg.Chat.ID, "❌ User "+target+" not found.")
		return
	}
	r.reply(msg.Chat.ID, adminReportText(rep))
}

func (r *Router) handleWeeklyReport(msg *tgbotapi.Message, now time.Time) {
	if !r.requireAdmin(msg) {
		return
	}
	r.reply(msg.Chat.ID, weeklyReportText(r.engine.WeeklyReport(now)))
}

func (r *Router) handleDebug(msg *tgbotapi.Message) {
	r.reply(msg.Chat.ID, debugText(time.Since(r.started), r.engine.UserCount()))
}
