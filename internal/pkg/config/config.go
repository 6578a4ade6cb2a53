package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every externally supplied setting. It is parsed once in
// main and threaded explicitly into constructors; nothing reads the
// environment after startup.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// SQLite database path.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"interviews.db"`

	// LINE Messaging API credentials.
	ChannelSecret      string `env:"CHANNEL_SECRET"`
	ChannelAccessToken string `env:"CHANNEL_ACCESS_TOKEN"`

	// Pre-shared key for the external reminder trigger. Empty disables
	// the check.
	CronSecret string `env:"CRON_SECRET"`

	// Organizational timezone; all interview dates and reminder windows
	// are interpreted in this location.
	Timezone string `env:"TZ_NAME" envDefault:"Asia/Taipei"`

	// Cron spec (with seconds) for the internal reminder cadence.
	ReminderCronSpec string `env:"REMINDER_CRON_SPEC" envDefault:"0 */10 * * * *"`

	// Static fallback recipients always included in the broadcast set.
	FallbackRecipients []string `env:"FALLBACK_RECIPIENTS" envSeparator:","`

	// Legacy targeted-delivery settings, used when recipient tracking is
	// disabled: one fixed group plus the president's user ID.
	LegacyGroupID     string `env:"LEGACY_GROUP_ID"`
	PresidentID       string `env:"PRESIDENT_ID"`
	RecipientTracking bool   `env:"RECIPIENT_TRACKING" envDefault:"true"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured organizational timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", c.Timezone, err)
	}
	return loc, nil
}
