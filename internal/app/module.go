// Package app composes the application from its parts with fx: config,
// logging, the profile lock, the in-memory store seeded with generated
// data, the navigation machine, the auto-reply responder, and the TUI
// shell.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/config"
	"github.com/wooqoo/qoo/internal/ctrl"
	"github.com/wooqoo/qoo/internal/lock"
	"github.com/wooqoo/qoo/internal/logging"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/profile"
	"github.com/wooqoo/qoo/internal/reply"
	"github.com/wooqoo/qoo/internal/sched"
	"github.com/wooqoo/qoo/internal/seed"
	"github.com/wooqoo/qoo/internal/store"
	"github.com/wooqoo/qoo/internal/tui"
)

// Params holds the resolved launch configuration passed to the fx module.
type Params struct {
	ProfileName string
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideScheduler,
			provideMachine,
			provideController,
			provideResponder,
			provideShell,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	return config.LoadOrDefault(profile.ConfigPath())
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(cfg *config.Config, b *bus.Bus, logger *zap.Logger) *store.Store {
	st := store.New(b)
	users, chats := seed.Generate(cfg.Seed, cfg.DisplayName)
	st.Load(users, chats)
	logger.Info("store seeded",
		zap.Int("users", len(users)),
		zap.Int("chats", len(chats)),
		zap.Uint64("seed", cfg.Seed))
	return st
}

func provideScheduler() *sched.Scheduler {
	return sched.New()
}

func provideMachine(st *store.Store, b *bus.Bus, cfg *config.Config) *nav.Machine {
	return nav.NewMachine(st, b, cfg.AutoSignIn)
}

func provideController(st *store.Store, m *nav.Machine, sc *sched.Scheduler, b *bus.Bus, logger *zap.Logger, cfg *config.Config) *ctrl.Controller {
	return ctrl.New(st, m, sc, b, logger, cfg.CallTick())
}

func provideResponder(st *store.Store, sc *sched.Scheduler, b *bus.Bus, logger *zap.Logger, cfg *config.Config) *reply.Responder {
	return reply.New(st, sc, b, logger, cfg.TypingDelay(), cfg.ReplyDelay())
}

func provideShell(c *ctrl.Controller, b *bus.Bus, logger *zap.Logger, cfg *config.Config, p Params) *tui.Shell {
	return tui.NewShell(c, b, logger, cfg, profile.ConfigPath(), p.ProfileName)
}

func registerLifecycle(lc fx.Lifecycle, sh *tui.Shell, responder *reply.Responder, sc *sched.Scheduler, lk *lock.Lock, shutdowner fx.Shutdowner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			responder.Start()
			sh.Start()

			// The terminal loop owns the foreground; when it exits,
			// bring the whole app down.
			go func() {
				if err := sh.Run(); err != nil {
					logger.Error("ui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sh.Stop()
			responder.Stop()
			sc.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stopped")
			return nil
		},
	})
}
