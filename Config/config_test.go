package Config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("TIME_ZONE", "")
	t.Setenv("SESSION_KEY", "")
	t.Setenv("PHOTO_QUALITY", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("FIREBASE_CREDENTIALS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.0.11:8080", cfg.APIBaseURL)
	assert.Equal(t, ":3001", cfg.ListenAddr)
	assert.Equal(t, "Europe/Sarajevo", cfg.Location.String())
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 85, cfg.PhotoQuality)
	assert.False(t, cfg.FirebaseEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:8080")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SESSION_KEY", strings.Repeat("ab", 32))
	t.Setenv("FIREBASE_CREDENTIALS", "/tmp/creds.json")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8080", cfg.APIBaseURL)
	assert.Equal(t, time.UTC.String(), cfg.Location.String())
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, byte(0xab), cfg.SessionKey[0])
	assert.True(t, cfg.FirebaseEnabled())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("time zone", func(t *testing.T) {
		t.Setenv("TIME_ZONE", "Mars/Olympus")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("short session key", func(t *testing.T) {
		t.Setenv("SESSION_KEY", "abcd")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("photo quality", func(t *testing.T) {
		t.Setenv("PHOTO_QUALITY", "120")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
