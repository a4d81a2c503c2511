package main

import (
	"os"

	"hsforms/cmd/hsforms/cmds"

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
		log.Debug("The .env file not found.")
	}

	if err := cmds.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
