package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/messagely/messagely/internal/buildinfo"
	"github.com/messagely/messagely/internal/server"
	"github.com/messagely/messagely/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(log.Writer())

	// optional local overrides; absence is fine
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
