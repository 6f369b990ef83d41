package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env when present. In production the variables are set
// directly, so a missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
}
