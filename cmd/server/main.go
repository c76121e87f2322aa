package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"chirp/internal/config"
	"chirp/internal/db"
	"chirp/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	srv, err := server.New(database, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server")
	}
	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
