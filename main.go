package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luckydraw-bot/drawbot"
	"luckydraw-bot/drawbot/commands"
	"luckydraw-bot/drawbot/draw"
	"luckydraw-bot/drawbot/logger"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := drawbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting lucky draw bot",
		slog.String("version", version),
		slog.String("commit", commit))

	loc, err := cfg.Draw.Location()
	if err != nil {
		slog.Error("Invalid timezone in configuration",
			slog.String("timezone", cfg.Draw.Timezone),
			slog.Any("error", err))
		os.Exit(-1)
	}

	if err := os.MkdirAll(cfg.Draw.DataDir, 0o755); err != nil {
		slog.Error("Failed to create data directory",
			slog.String("dir", cfg.Draw.DataDir),
			slog.Any("error", err))
		os.Exit(-1)
	}

	b := drawbot.New(*cfg, version, commit)
	b.Store = draw.NewFileStore(cfg.Draw.DataDir)
	b.Registry = draw.NewRegistry(loc)
	b.Registry.Restore(b.Store.Load())

	active, ended := b.Registry.Counts()
	slog.Info("Draw state restored",
		slog.String("type", "save"),
		slog.Int("active_draws", active),
		slog.Int("ended_draws", ended))

	h := handler.New()
	commands.NewLuckyDrawHandler(b).Register(h)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	b.Announcer = drawbot.NewAnnouncer(b.Client)

	scheduler := draw.NewScheduler(b.Registry, b.Announcer, cfg.Draw.SweepInterval())
	saver := draw.NewSaver(b.Registry, b.Store, cfg.Draw.SaveInterval())

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)

		// The gateway is closed first so no new mutations arrive, then the
		// schedulers drain and the final flush runs.
		scheduler.Shutdown()
		saver.Close()
		slog.Info("Shutdown complete", slog.String("type", "sys"))
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	scheduler.Start()
	saver.Start()

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
