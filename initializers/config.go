package initializers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Location               *time.Location
	DefaultVisibilityWeeks int
	WeekHorizonWeeks       int
	StatsRefreshWorkers    int
	StatsQueueSize         int
	ModerationTermsPath    string
	CORSOrigin             string
}

var Config AppConfig

// LoadConfig parses the environment into Config.
func LoadConfig() error {
	tz := getEnv("ORG_TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("ORG_TIMEZONE %q: %w", tz, err)
	}

	cfg := AppConfig{
		Location:            loc,
		ModerationTermsPath: os.Getenv("MODERATION_TERMS_PATH"),
		CORSOrigin:          getEnv("CORS_ORIGIN", "*"),
	}

	ints := []struct {
		key  string
		def  int
		min  int
		dest *int
	}{
		{"DEFAULT_VISIBILITY_WEEKS", 4, 0, &cfg.DefaultVisibilityWeeks},
		{"WEEK_CACHE_HORIZON_WEEKS", 52, 0, &cfg.WeekHorizonWeeks},
		{"STATS_REFRESH_WORKERS", 2, 1, &cfg.StatsRefreshWorkers},
		{"STATS_QUEUE_SIZE", 256, 1, &cfg.StatsQueueSize},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return err
		}
		if n < v.min {
			return fmt.Errorf("%s must be at least %d, got %d", v.key, v.min, n)
		}
		*v.dest = n
	}

	Config = cfg
	log.Printf("Config loaded: timezone=%s defaultVisibilityWeeks=%d", loc, cfg.DefaultVisibilityWeeks)
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
