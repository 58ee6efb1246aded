// Package config loads runtime settings from the environment, with a
// .env file as an optional local override.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	MongoURI string
	DBName   string

	OSSEndpoint  string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string
	OSSPublicURL string
}

// Load reads .env when present and falls back to defaults suitable for
// local development. OSS credentials have no default; homework upload
// fails with a dependency error until they are set.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Load: no .env file, using environment")
	}
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":3000"),
		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getenv("DB_NAME", "edudesk"),

		OSSEndpoint:  os.Getenv("OSS_ENDPOINT"),
		OSSAccessKey: os.Getenv("OSS_ACCESS_KEY"),
		OSSSecretKey: os.Getenv("OSS_SECRET_KEY"),
		OSSBucket:    os.Getenv("OSS_BUCKET"),
		OSSPublicURL: os.Getenv("OSS_PUBLIC_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
