package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ashishkaushik/leazzy/internal/client/cli"
	"github.com/ashishkaushik/leazzy/internal/client/config"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
