package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Speech   SpeechConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins string
	UserIDHeader string
}

type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

type LLMConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string
	GroqBaseURL  string
	Temperature  float32
}

type SpeechConfig struct {
	Model      string
	Language   string
	FFmpegPath string
}

type StorageConfig struct {
	TempPath    string
	MaxFileSize int64
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			Env:          getEnv("ENV", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "https://interview-agent-frontend.vercel.app,http://localhost:5173"),
			UserIDHeader: getEnv("USER_ID_HEADER", "X-User-ID"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "interview_db"),
			SQLitePath:    getEnv("SQLITE_PATH", "./interview.db"),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "interview_db"),
		},
		LLM: LLMConfig{
			Provider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
			GroqModel:    getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			GroqBaseURL:  getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Temperature:  getEnvAsFloat32("LLM_TEMPERATURE", 0.7),
		},
		Speech: SpeechConfig{
			Model:      getEnv("SPEECH_MODEL", "gemini-2.5-flash"),
			Language:   getEnv("SPEECH_LANGUAGE", "en-IN"),
			FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
		},
		Storage: StorageConfig{
			TempPath:    getEnv("TEMP_PATH", os.TempDir()),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.LLM.Provider)
		}
	case ProviderGroq:
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for provider %q", c.LLM.Provider)
		}
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for speech recognition")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

// Origins returns the configured CORS origins as a list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.AllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}
