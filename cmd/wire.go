package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	redisrepo "github.com/bnema/intakebot/internal/adapters/repo/redis"
	tomlrepo "github.com/bnema/intakebot/internal/adapters/repo/toml"
	chainstore "github.com/bnema/intakebot/internal/adapters/secrets/chain"
	filestore "github.com/bnema/intakebot/internal/adapters/secrets/file"
	"github.com/bnema/intakebot/internal/adapters/transport/telegram"
	"github.com/bnema/intakebot/internal/application"
	"github.com/bnema/intakebot/internal/config"
	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
)

var errMissingToken = errors.New("telegram bot token is not configured: set telegram.token or run `intakebot token set`")

type app struct {
	viper   *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
	secrets ports.SecretStore
	closers []func() error
}

func (a *app) init() error {
	v, err := config.NewViper()
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return err
	}

	a.viper = v
	a.cfg = cfg
	a.logger = logger
	a.secrets = secrets

	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close resource", zap.Error(err))
		}
	}
	a.closers = nil

	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	if cfg.SecretsBackend == config.SecretsFile {
		return filestore.NewStore(cfg.SecretsDir()), nil
	}

	store, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir())
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return store, nil
}

func (a *app) repositories() (application.Repositories, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendRedis:
		store, err := redisrepo.NewStore(a.cfg.Storage.RedisURL)
		if err != nil {
			return application.Repositories{}, fmt.Errorf("wire redis store: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		return application.Repositories{
			Decisions: store.Decisions(),
			Links:     store.Links(),
			Sessions:  store.Sessions(),
			Users:     store.KnownUsers(),
			Stats:     store.Stats(),
		}, nil
	default:
		return tomlRepositories(a.viper)
	}
}

func tomlRepositories(v *viper.Viper) (application.Repositories, error) {
	decisions, err := tomlrepo.NewDecisionRepository(v)
	if err != nil {
		return application.Repositories{}, fmt.Errorf("wire decision registry: %w", err)
	}
	links, err := tomlrepo.NewLinkLedger(v)
	if err != nil {
		return application.Repositories{}, fmt.Errorf("wire link ledger: %w", err)
	}
	sessions, err := tomlrepo.NewSessionRepository(v)
	if err != nil {
		return application.Repositories{}, fmt.Errorf("wire session store: %w", err)
	}
	users, err := tomlrepo.NewKnownUserRepository(v)
	if err != nil {
		return application.Repositories{}, fmt.Errorf("wire known users: %w", err)
	}
	stats, err := tomlrepo.NewStatsRepository(v)
	if err != nil {
		return application.Repositories{}, fmt.Errorf("wire stats store: %w", err)
	}

	return application.Repositories{
		Decisions: decisions,
		Links:     links,
		Sessions:  sessions,
		Users:     users,
		Stats:     stats,
	}, nil
}

func (a *app) botToken(ctx context.Context) (string, error) {
	if a.cfg.Telegram.Token != "" {
		return a.cfg.Telegram.Token, nil
	}

	token, err := a.secrets.Get(ctx, ports.BotTokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", errMissingToken
		}
		return "", fmt.Errorf("read bot token: %w", err)
	}

	return token, nil
}

func (a *app) transport(ctx context.Context) (*telegram.Transport, error) {
	token, err := a.botToken(ctx)
	if err != nil {
		return nil, err
	}

	return telegram.New(token, a.logger.Named("telegram"))
}

// service builds the application service. transport may be nil for commands that never deliver messages.
func (a *app) service(repos application.Repositories, transport ports.Transport) *application.Service {
	return application.NewService(repos, transport, ports.SystemClock{}, a.logger, application.Config{
		ChannelID: domain.ChannelID(a.cfg.Telegram.ChannelID),
		ManagerID: domain.UserID(a.cfg.Telegram.ManagerID),
		Quota: domain.Quota{
			UserWeekly:  a.cfg.Quota.UserWeekly,
			TotalWeekly: a.cfg.Quota.TotalWeekly,
		},
		ReminderConcurrency: a.cfg.Reminder.Concurrency,
		Location:            a.cfg.Reminder.Location,
	})
}
