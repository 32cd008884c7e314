package main

import (
	"github.com/sharuys/SecretSanta/internal/app"
	"github.com/sharuys/SecretSanta/internal/config"
	"github.com/sharuys/SecretSanta/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))
	app.Go(cfg)
}
