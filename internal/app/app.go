package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/config"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/scheduler"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/shift"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/store"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/telegram"
	"github.com/Varun-meghjiani/mod-shift-bot/internal/web"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	engine  *shift.Engine
	router  *telegram.Router
	sweeper *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	router := telegram.NewRouter(bot, log, telegram.Options{
		ModeratorIDs:   cfg.ModeratorIDs,
		AdminIDs:       cfg.AdminIDs,
		MonitoredChats: cfg.MonitoredChatIDs,
		ShiftLogChatID: cfg.ShiftLogChatID,
	})

	engine, err := shift.New(
		store.NewFileStore(cfg.DataFile),
		router,
		log,
		shift.Config{
			Interval:       cfg.CheckinInterval,
			Grace:          cfg.GraceWindow,
			MissEscalation: cfg.MissEscalation,
			MonitoredChats: cfg.MonitoredChatIDs,
		},
		loc,
	)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}
	router.SetEngine(engine)

	sweeper, err := scheduler.New(engine, log, cfg.SweepInterval)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		httpSrv: web.New(cfg.HTTPAddr),
		engine:  engine,
		router:  router,
		sweeper: sweeper,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting mod-shift-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("interval", a.cfg.CheckinInterval),
		zap.Duration("grace", a.cfg.GraceWindow),
		zap.Int("tracked_users", a.engine.UserCount()),
	)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	a.sweeper.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			if err := a.sweeper.Stop(); err != nil {
				a.log.Warn("scheduler shutdown error", zap.Error(err))
			}

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
