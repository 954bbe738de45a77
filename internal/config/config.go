package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix  = "INTAKEBOT"
	HomeEnvVar = "INTAKEBOT_HOME"

	KeyTelegramToken       = "telegram.token"
	KeyTelegramManagerID   = "telegram.manager_id"
	KeyTelegramChannelID   = "telegram.channel_id"
	KeyQuotaUserWeekly     = "quota.user_weekly"
	KeyQuotaTotalWeekly    = "quota.total_weekly"
	KeyStorageBackend      = "storage.backend"
	KeyStorageDir          = "storage.dir"
	KeyStorageRedisURL     = "storage.redis_url"
	KeyReminderSchedule    = "reminder.schedule"
	KeyReminderTimezone    = "reminder.timezone"
	KeyReminderConcurrency = "reminder.concurrency"
	KeyLogLevel            = "log.level"
	KeyLogDevelopment      = "log.development"
	KeySecretsBackend      = "secrets.backend"

	BackendTOML  = "toml"
	BackendRedis = "redis"

	SecretsPass = "pass"
	SecretsFile = "file"

	defaultHomeDir  = ".intakebot"
	configFileName  = "config"
	configFileType  = "toml"
	secretsDirName  = "secrets"
	storageDirName  = "data"
	defaultChannel  = int64(-4223848296)
	defaultSchedule = "0 9 * * *"
	defaultTimezone = "Europe/Moscow"
)

type Config struct {
	Telegram TelegramConfig
	Quota    QuotaConfig
	Storage  StorageConfig
	Reminder ReminderConfig
	Log      LogConfig

	// SecretsBackend is "pass" for pass with a file fallback, or "file".
	SecretsBackend string
	// Home holds config.toml and the file secret store.
	Home string
}

type TelegramConfig struct {
	Token     string
	ManagerID int64
	ChannelID int64
}

type QuotaConfig struct {
	UserWeekly  int
	TotalWeekly int
}

type StorageConfig struct {
	Backend  string
	Dir      string
	RedisURL string
}

type ReminderConfig struct {
	Schedule    string
	Location    *time.Location
	Concurrency int
}

type LogConfig struct {
	Level       zapcore.Level
	Development bool
}

func (c Config) SecretsDir() string {
	return filepath.Join(c.Home, secretsDirName)
}

// NewViper builds the configuration source: environment, then config.toml in the home directory, then defaults.
func NewViper() (*viper.Viper, error) {
	home, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTelegramChannelID, defaultChannel)
	v.SetDefault(KeyQuotaUserWeekly, 6)
	v.SetDefault(KeyQuotaTotalWeekly, 36)
	v.SetDefault(KeyStorageBackend, BackendTOML)
	v.SetDefault(KeyStorageDir, filepath.Join(home, storageDirName))
	v.SetDefault(KeyStorageRedisURL, "redis://127.0.0.1:6379/0")
	v.SetDefault(KeyReminderSchedule, defaultSchedule)
	v.SetDefault(KeyReminderTimezone, defaultTimezone)
	v.SetDefault(KeyReminderConcurrency, 8)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeySecretsBackend, SecretsPass)
	v.Set("home", home)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

// Load reads and validates the typed configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Home: v.GetString("home"),
		Telegram: TelegramConfig{
			Token:     strings.TrimSpace(v.GetString(KeyTelegramToken)),
			ManagerID: v.GetInt64(KeyTelegramManagerID),
			ChannelID: v.GetInt64(KeyTelegramChannelID),
		},
		Quota: QuotaConfig{
			UserWeekly:  v.GetInt(KeyQuotaUserWeekly),
			TotalWeekly: v.GetInt(KeyQuotaTotalWeekly),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
			Dir:      v.GetString(KeyStorageDir),
			RedisURL: v.GetString(KeyStorageRedisURL),
		},
		Reminder: ReminderConfig{
			Schedule:    v.GetString(KeyReminderSchedule),
			Concurrency: v.GetInt(KeyReminderConcurrency),
		},
		Log: LogConfig{
			Development: v.GetBool(KeyLogDevelopment),
		},
		SecretsBackend: strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsBackend))),
	}

	var errs []error

	switch cfg.Storage.Backend {
	case BackendTOML:
	case BackendRedis:
		if cfg.Storage.RedisURL == "" {
			errs = append(errs, fmt.Errorf("%s is required for the redis backend", KeyStorageRedisURL))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: unknown backend %q", KeyStorageBackend, cfg.Storage.Backend))
	}

	if cfg.SecretsBackend != SecretsPass && cfg.SecretsBackend != SecretsFile {
		errs = append(errs, fmt.Errorf("%s: unknown backend %q", KeySecretsBackend, cfg.SecretsBackend))
	}
	if cfg.Telegram.ChannelID == 0 {
		errs = append(errs, fmt.Errorf("%s must be set", KeyTelegramChannelID))
	}
	if cfg.Quota.UserWeekly <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyQuotaUserWeekly))
	}
	if cfg.Quota.TotalWeekly <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyQuotaTotalWeekly))
	}
	if cfg.Reminder.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyReminderConcurrency))
	}
	if _, err := cron.ParseStandard(cfg.Reminder.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyReminderSchedule, err))
	}

	location, err := time.LoadLocation(v.GetString(KeyReminderTimezone))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyReminderTimezone, err))
	}
	cfg.Reminder.Location = location

	level, err := zapcore.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	cfg.Log.Level = level

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func homeDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnvVar)); home != "" {
		return filepath.Clean(home), nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(userHome, defaultHomeDir), nil
}
