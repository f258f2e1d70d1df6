package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr  string
	GinMode  string
	LogLevel string

	DB DBEnv

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginMaxAttempts int
	LoginLockWindow  time.Duration

	CORSAllowedOrigins  []string
	RecentRequestsLimit int
}

type DBEnv struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// LoadEnv reads .env when present and then the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	env := Env{
		AppAddr:  getEnv("APP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBEnv{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnvAsInt("DB_PORT", 3306),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "projectdesk"),
		},
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTTTL:              getEnvAsDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		LoginMaxAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockWindow:     getEnvAsDuration("LOGIN_LOCK_WINDOW", 15*time.Minute),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RecentRequestsLimit: getEnvAsInt("RECENT_REQUESTS_LIMIT", 5),
	}

	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) Validate() error {
	if strings.TrimSpace(e.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if e.DB.DSN == "" && e.DB.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}
	if e.LoginMaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be >= 1")
	}
	return nil
}

// MySQLDSN returns DB_DSN as is, or builds one from the DB_* parts.
func (e Env) MySQLDSN() string {
	if e.DB.DSN != "" {
		return e.DB.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DB.User,
		e.DB.Password,
		e.DB.Host,
		e.DB.Port,
		e.DB.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
