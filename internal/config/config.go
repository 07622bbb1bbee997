package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ODNAR_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ODNAR_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

const minAnthropicKeyLength = 20

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	AnalyzerInline     = "inline"
	AnalyzerBackground = "background"
)

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// StorageDriver returns postgres or sqlite. Defaults to postgres.
func StorageDriver() string {
	if strings.EqualFold(os.Getenv("STORAGE_DRIVER"), StorageSQLite) {
		return StorageSQLite
	}
	return StoragePostgres
}

func SQLitePath() string {
	p := os.Getenv("SQLITE_PATH")
	if p == "" {
		return "odnar.db"
	}
	return p
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "anthropic" if not set.
// Valid values: anthropic, openai, gemini, cerebras, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "anthropic"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "openai":
		return OpenAIAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return AnthropicAPIKey()
	}
}

// LLMModel returns the model override, or "" for the provider default.
// ANTHROPIC_MODEL is honoured when the provider is anthropic.
func LLMModel() string {
	if m := os.Getenv("LLM_MODEL"); m != "" {
		return m
	}
	if LLMProvider() == "anthropic" {
		return os.Getenv("ANTHROPIC_MODEL")
	}
	return ""
}

// AnalyzerEnabled reports whether a usable credential exists for the
// configured provider. Without one the contradiction analyzer stays off.
func AnalyzerEnabled() bool {
	switch LLMProvider() {
	case "mock":
		return true
	case "anthropic":
		return len(strings.TrimSpace(AnthropicAPIKey())) >= minAnthropicKeyLength
	default:
		return strings.TrimSpace(LLMAPIKey()) != ""
	}
}

// AnalyzerTimeout bounds one analyzer run. Defaults to 20s.
func AnalyzerTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("ANALYZER_TIMEOUT"))
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// AnalyzerMode returns inline or background. Defaults to inline.
func AnalyzerMode() string {
	if strings.EqualFold(os.Getenv("ANALYZER_MODE"), AnalyzerBackground) {
		return AnalyzerBackground
	}
	return AnalyzerInline
}

// APIKey is the optional static bearer key for /v1 routes.
func APIKey() string {
	return os.Getenv("API_KEY")
}

func CORSAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
