package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource       string
	Port           string
	JWTSecret      string
	JWTTTL         time.Duration
	TrackingPrefix string
	SeedDemo       bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:       getEnv("DB_SOURCE", "atlas.db"),
		Port:           getEnv("PORT", "8000"),
		JWTSecret:      getEnv("JWT_SECRET", "changeme"),
		JWTTTL:         time.Duration(24) * time.Hour,
		TrackingPrefix: getEnv("TRACKING_PREFIX", "APE"),
		SeedDemo:       getEnv("SEED_DEMO", "") == "1",
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
