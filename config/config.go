package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTLHours  int
	JWTRefreshTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers   string
	KafkaPushTopic string

	// ✅ FCM Config
	FCMCredentialsPath string // Path to Firebase service account JSON
	FCMProjectID       string // Firebase Project ID (optional, can be in JSON)

	// ✅ Content Config
	WebappURL       string // Base URL of the public web app, used for permalinks
	BackendLanguage string // Language slug the editorial backend runs in

	// Maximum number of days into the future for which occurrences of
	// recurring events are generated for the public API. This is a hard
	// cutoff for rules without an end date.
	EventsMaxTimeSpanDays int
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	refreshTTL, _ := strconv.Atoi(os.Getenv("JWT_REFRESH_TTL_HOURS"))
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	maxTimeSpan, _ := strconv.Atoi(os.Getenv("API_EVENTS_MAX_TIME_SPAN_DAYS"))
	if maxTimeSpan <= 0 {
		maxTimeSpan = 31
	}

	backendLanguage := os.Getenv("BACKEND_LANGUAGE")
	if backendLanguage == "" {
		backendLanguage = "de"
	}

	webappURL := os.Getenv("WEBAPP_URL")
	if webappURL == "" {
		webappURL = "https://portal.example.com"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port: port,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTLHours:  accessTTL,
		JWTRefreshTTLHours: refreshTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaPushTopic: os.Getenv("KAFKA_PUSH_TOPIC"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),

		WebappURL:             webappURL,
		BackendLanguage:       backendLanguage,
		EventsMaxTimeSpanDays: maxTimeSpan,
	}
}
