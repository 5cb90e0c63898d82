package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Engine   struct {
		ladder.Params       `yaml:",inline"`
		DefaultSLBufferMult float64 `yaml:"default_sl_buffer_mult"`
		DefaultTPMult       float64 `yaml:"default_tp_mult"`
	} `yaml:"engine"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		Addr      string  `yaml:"addr"`
		RateLimit float64 `yaml:"rate_limit"`
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"server"`
	Proxy    string `yaml:"proxy"`
	Reminder struct {
		Enabled bool               `yaml:"enabled"`
		Cron    string             `yaml:"cron"`
		Context model.TradeContext `yaml:"context"`
	} `yaml:"reminder"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables take precedence over it.
	_ = godotenv.Load()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REMINDER_CRON"); v != "" {
		cfg.Reminder.Cron = v
	}
	if v := os.Getenv("REMINDER_ENABLED"); v != "" {
		cfg.Reminder.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("DEFAULT_TP_MULT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse DEFAULT_TP_MULT: %w", err)
		}
		cfg.Engine.DefaultTPMult = f
	}
	if v := os.Getenv("DEFAULT_SL_BUFFER_MULT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse DEFAULT_SL_BUFFER_MULT: %w", err)
		}
		cfg.Engine.DefaultSLBufferMult = f
	}

	cfg.applyDefaults()
	cfg.Reminder.Context = cfg.BaseContext()
	if len(data) > 0 {
		if err := cfg.decodeReminderContext(data); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// decodeReminderContext decodes reminder.context over BaseContext, so keys
// present in the file win even when they are zero.
func (c *Config) decodeReminderContext(data []byte) error {
	var doc struct {
		Reminder struct {
			Context model.TradeContext `yaml:"context"`
		} `yaml:"reminder"`
	}
	doc.Reminder.Context = c.BaseContext()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse reminder context: %w", err)
	}
	c.Reminder.Context = doc.Reminder.Context
	return nil
}

func (c *Config) applyDefaults() {
	def := ladder.DefaultParams()
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Engine.BaseStepMult == 0 {
		c.Engine.BaseStepMult = def.BaseStepMult
	}
	if c.Engine.NudgeMult == 0 {
		c.Engine.NudgeMult = def.NudgeMult
	}
	if c.Engine.WideZoneK == 0 {
		c.Engine.WideZoneK = def.WideZoneK
	}
	if c.Engine.StrongTrendADX == 0 {
		c.Engine.StrongTrendADX = def.StrongTrendADX
	}
	if c.Engine.RREpsilon == 0 {
		c.Engine.RREpsilon = def.RREpsilon
	}
	if c.Engine.DefaultSLBufferMult == 0 {
		c.Engine.DefaultSLBufferMult = ladder.DefaultSLBufferMult
	}
	if c.Engine.DefaultTPMult == 0 {
		c.Engine.DefaultTPMult = ladder.DefaultTPMult
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 20
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 40
	}
	if c.Reminder.Cron == "" {
		c.Reminder.Cron = "0 0 8 * * 1-5"
	}
}

// BaseContext returns the configured SL/TP multipliers with neutral signals.
// Callers decode their input over it: fields the caller supplies, zero
// included, replace these values and absent ones keep them.
func (c *Config) BaseContext() model.TradeContext {
	return model.TradeContext{
		SLBufferMult: c.Engine.DefaultSLBufferMult,
		TPMult:       c.Engine.DefaultTPMult,
		MACD:         model.MACDNeutral,
		RSITrigger:   model.RSINone,
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if err := c.Engine.Params.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Engine.DefaultSLBufferMult < 0 || c.Engine.DefaultTPMult < 0 {
		return fmt.Errorf("engine default multipliers must be non-negative")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server rate limit must be non-negative")
	}
	if c.Reminder.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when reminder is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when reminder is enabled")
		}
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.Reminder.Cron); err != nil {
			return fmt.Errorf("reminder.cron: %w", err)
		}
		if err := ladder.Validate(c.Reminder.Context); err != nil {
			return fmt.Errorf("reminder.context: %w", err)
		}
	}
	return nil
}

// Params returns the engine tuning.
func (c *Config) Params() ladder.Params {
	return c.Engine.Params
}
