package main

import (
	"os"

	"paneld/internal/api"
	"paneld/internal/backends"
	"paneld/internal/directory"
	"paneld/internal/types"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("The .env file not found.")
	}

	cfg, err := types.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sess, err := backends.SessionsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	lister, store, err := backends.DirectoryFromConfig(cfg, sess)
	if err != nil {
		log.Fatalf("Failed to initialize client directory: %v", err)
	}

	log.WithFields(log.Fields{
		"directoryBackend": cfg.DirectoryBackend,
		"sessionBackend":   cfg.SessionBackend,
	}).Info("Starting paneld")

	api.RunServer(cfg, directory.New(lister, store), sess)
}
