package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DataFile string `envconfig:"DATA_FILE" default:"./data/mod_data.json"`
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Karachi"` // fixed civil timezone for all policy decisions

	CheckinInterval time.Duration `envconfig:"CHECKIN_INTERVAL" default:"25m"` // min gap between check-ins, also the activity window
	GraceWindow     time.Duration `envconfig:"GRACE_WINDOW" default:"5m"`      // extra time before a miss is confirmed
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	MissEscalation  int           `envconfig:"MISS_ESCALATION" default:"2"` // daily misses at which reminders escalate

	MonitoredChatIDs []int64 `envconfig:"MONITORED_CHAT_IDS" required:"true"` // messages here count as activity
	ShiftLogChatID   int64   `envconfig:"SHIFT_LOG_CHAT_ID" default:"0"`      // 0 disables shift-log posts
	ModeratorIDs     []int64 `envconfig:"MODERATOR_IDS" required:"true"`
	AdminIDs         []int64 `envconfig:"ADMIN_IDS"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // liveness + metrics
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
