// Package config carga la configuración de la app desde variables de entorno.
// Soporta archivos .env vía godotenv (solo dev).
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	Environment string // development | production

	// Postgres. Vacío => repos in-memory (modo dev).
	DatabaseURL string

	// Oráculo de visión (OpenAI compatible).
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Fotos en disco local + URL pública.
	UploadsDir    string
	PublicBaseURL string

	AllowedOrigins []string
}

// Load lee la configuración desde env. Nunca falla: los defaults cubren dev,
// y la ausencia de OPENAI_API_KEY es un estado válido (oráculo degradado a score 0).
func Load() *Config {
	// .env si existe (dev)
	_ = godotenv.Load()

	return &Config{
		Port:        getEnvInt("PORT", 4000),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),

		UploadsDir:    getEnv("UPLOADS_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:4000"), "/"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
