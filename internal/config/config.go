package config

import (
	"os"
	"strconv"
	"strings"

	"fapbot/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Telegram notification bot. Empty token disables outbound notifications.
	BotToken       string
	AnnounceChatID int64
	AdminTgIDs     []int64

	// Redis rate limiter (fail-open when unset)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Economy knobs
	DailyReward  int64
	FapRateLimit int
	FapRateWindow int

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env supported).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var announceChat int64
	if v := os.Getenv("ANNOUNCE_CHAT_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			announceChat = n
		}
	}

	// comma-separated telegram ids of bot admins
	var adminIDs []int64
	if v := os.Getenv("ADMIN_TG_IDS"); v != "" {
		for _, idStr := range strings.Split(v, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	dailyReward := int64(1)
	if v := os.Getenv("DAILY_REWARD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			dailyReward = n
		}
	}

	fapRateLimit := 30
	if v := os.Getenv("FAP_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			fapRateLimit = n
		}
	}

	fapRateWindow := 60
	if v := os.Getenv("FAP_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			fapRateWindow = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:        port,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		BotToken:       os.Getenv("BOT_TOKEN"),
		AnnounceChatID: announceChat,
		AdminTgIDs:     adminIDs,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		DailyReward:    dailyReward,
		FapRateLimit:   fapRateLimit,
		FapRateWindow:  fapRateWindow,
		LogLevel:       logLevel,
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}
}
