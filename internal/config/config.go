// Package config loads the runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress  string
	AuthPassword string

	AnthropicKey   string
	AnthropicModel string

	ElevenLabsKey string
	DeepgramKey   string
	TTSProvider   string

	SQLitePath string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	TransferDelay time.Duration
}

// Load reads environment variables and returns Config with sane defaults.
// Missing provider keys disable the matching adapter with a warning rather
// than failing startup.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		logrus.Warn("ANTHROPIC_API_KEY not set - dialogue generation will not work")
	}
	anthropicModel := os.Getenv("ANTHROPIC_MODEL")
	if anthropicModel == "" {
		anthropicModel = "claude-3-haiku-20240307"
	}

	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	if elevenKey == "" {
		logrus.Warn("ELEVENLABS_API_KEY not set - speech synthesis and transcription will not work")
	}
	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")

	ttsProvider := os.Getenv("TTS_PROVIDER")
	if ttsProvider == "" {
		ttsProvider = "elevenlabs"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "scamshield.db"
	}

	supabaseBucket := os.Getenv("SUPABASE_BUCKET")
	if supabaseBucket == "" {
		supabaseBucket = "call-reports"
	}

	transferDelay := 2 * time.Second
	if raw := os.Getenv("TRANSFER_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			logrus.WithField("value", raw).Warn("invalid TRANSFER_DELAY_MS, using default")
		} else {
			transferDelay = time.Duration(ms) * time.Millisecond
		}
	}

	logrus.WithField("address", addr).Info("configuration loaded")
	return Config{
		HTTPAddress:        addr,
		AuthPassword:       os.Getenv("AUTH_PASSWORD"),
		AnthropicKey:       anthropicKey,
		AnthropicModel:     anthropicModel,
		ElevenLabsKey:      elevenKey,
		DeepgramKey:        deepgramKey,
		TTSProvider:        ttsProvider,
		SQLitePath:         sqlitePath,
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     supabaseBucket,
		TransferDelay:      transferDelay,
	}
}
