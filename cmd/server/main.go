package main

import (
	"context"
	"log"

	"github.com/ashishkaushik/leazzy/internal/server"
	"github.com/ashishkaushik/leazzy/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
