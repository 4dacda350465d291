package main

import (
	"context"
	"fmt"
	"os"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/bootstrap"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/config"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	srv "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/server"
)

func main() {
	cfg, err := config.LoadTrackerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogDir, "tracker", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewApp(ctx, cfg, log, bootstrap.Options{})
	if err != nil {
		log.Fatalf("failed to start tracker: %v", err)
	}
	defer app.Close()

	app.StartSessionCleanup(ctx)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(context.Context) error {
			log.Infof("tracker service: stopping session cleanup")
			cancel()
			return nil
		},
	}

	if err := srv.StartWithGracefulShutdownAndHooks(server, log, "tracker", shutdownHooks); err != nil {
		log.Errorf("tracker service exited: %v", err)
		app.Close()
		os.Exit(1)
	}
}
