package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rankrocket/rankrocket-cli/internal/buildinfo"
	"github.com/rankrocket/rankrocket-cli/internal/client/cli"
	"github.com/rankrocket/rankrocket-cli/internal/client/config"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
