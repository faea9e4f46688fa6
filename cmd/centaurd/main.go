package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lastcentaur/server/internal/config"
	"github.com/lastcentaur/server/internal/game"
	gonet "github.com/lastcentaur/server/internal/net"
	"github.com/lastcentaur/server/internal/persist"
	"github.com/lastcentaur/server/internal/system"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	app := &cli.Command{
		Name:  "centaurd",
		Usage: "The Last Centaur game server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/server.toml",
				Usage:   "path to the TOML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the game server",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: runMigrate,
			},
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, err := game.LoadTables(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	log.Info("catalogues loaded",
		zap.Int("tiles", tables.Map.Count()),
		zap.Int("items", tables.Items.Count()),
		zap.Int("enemies", tables.Enemies.Count()),
		zap.Int("discoveries", tables.Discoveries.Count()),
		zap.Int("achievements", tables.Achievements.Count()),
		zap.Int("abilities", tables.Abilities.Count()),
		zap.Int("npcs", tables.Npcs.Count()))

	store, leaderboard, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	mgr, err := game.NewManager(cfg, tables, store, leaderboard, nil, log)
	if err != nil {
		return fmt.Errorf("game manager: %w", err)
	}
	defer mgr.Shutdown()

	srv, err := gonet.NewServer(cfg.Network, mgr, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	log.Info("listening", zap.String("addr", srv.Addr().String()))
	return srv.Serve(ctx)
}

// buildStore wires the configured snapshot backend and, when Postgres is in
// play, the durable leaderboard behind the in-memory board.
func buildStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Store, *system.Leaderboard, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrations: %w", err)
		}
		repo := persist.NewLeaderboardRepo(db)
		board := system.NewLeaderboard(repo, log)
		if entries, err := repo.LoadAll(dbCtx); err != nil {
			log.Warn("leaderboard seed failed", zap.Error(err))
		} else {
			board.Seed(entries)
		}
		return persist.NewSnapshotRepo(db), board, db.Close, nil
	case "redis":
		store := persist.NewRedisStore(cfg.Redis)
		return store, system.NewLeaderboard(nil, log), func() { store.Close() }, nil
	default:
		return persist.NewMemoryStore(), system.NewLeaderboard(nil, log), func() {}, nil
	}
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := persist.NewDB(dbCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
