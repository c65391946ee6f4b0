package Config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds everything the companion service reads from the environment.
type Config struct {
	APIBaseURL  string
	ListenAddr  string
	SessionDB   string
	TimeZone    string
	Location    *time.Location
	HTTPTimeout time.Duration

	JWTSecret   string
	SessionKey  [32]byte
	DeviceModel string

	FirebaseCredentials string
	FirebaseProjectID   string
	FirebaseBucket      string

	RefreshSchedule string

	LogLevel  string
	LogFormat string
	LogFile   string

	PhotoMaxDimension int
	PhotoQuality      int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using %d", key, v, def)
		return def
	}
	return i
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, v, def)
		return def
	}
	return d
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:          getenv("API_BASE_URL", "http://192.168.0.11:8080"),
		ListenAddr:          getenv("LISTEN_ADDR", ":3001"),
		SessionDB:           getenv("SESSION_DB", "session.db"),
		TimeZone:            getenv("TIME_ZONE", "Europe/Sarajevo"),
		HTTPTimeout:         getdur("HTTP_TIMEOUT", 15*time.Second),
		JWTSecret:           getenv("JWT_SECRET", "secret"),
		DeviceModel:         getenv("DEVICE_MODEL", hostModel()),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseBucket:      os.Getenv("FIREBASE_BUCKET"),
		RefreshSchedule:     getenv("REFRESH_SCHEDULE", "0 */5 * * * *"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "text"),
		LogFile:             os.Getenv("LOG_FILE"),
		PhotoMaxDimension:   getint("PHOTO_MAX_DIMENSION", 1600),
		PhotoQuality:        getint("PHOTO_QUALITY", 85),
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	key, err := sessionKey(os.Getenv("SESSION_KEY"), cfg.JWTSecret)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionKey = key

	if cfg.PhotoQuality < 1 || cfg.PhotoQuality > 100 {
		return Config{}, fmt.Errorf("PHOTO_QUALITY must be between 1 and 100, got %d", cfg.PhotoQuality)
	}
	return cfg, nil
}

// FirebaseEnabled reports whether enough is configured to talk to Firebase.
func (c Config) FirebaseEnabled() bool {
	return c.FirebaseCredentials != ""
}

// sessionKey decodes SESSION_KEY, falling back to a key derived from the JWT secret.
func sessionKey(raw, fallback string) ([32]byte, error) {
	var key [32]byte
	if raw == "" {
		return sha256.Sum256([]byte(fallback)), nil
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return key, fmt.Errorf("SESSION_KEY is not hex: %w", err)
	}
	if len(b) != len(key) {
		return key, fmt.Errorf("SESSION_KEY must be %d bytes, got %d", len(key), len(b))
	}
	copy(key[:], b)
	return key, nil
}

func hostModel() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
