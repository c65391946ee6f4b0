package middleware

import (
	"time"

	"MagicPlanner/Session"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// LogConfig holds configuration for the request logger.
type LogConfig struct {
	// Skip logging for specific paths
	SkipPaths []string
	// Requests slower than this are logged as warnings
	SlowThreshold time.Duration
}

func DefaultLogConfig() LogConfig {
	return LogConfig{
		SkipPaths:     []string{"/health"},
		SlowThreshold: time.Second,
	}
}

// RequestLogger logs every request with its status, latency and account.
func RequestLogger(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		fields := log.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    latency.String(),
			"ip":         c.IP(),
			"user_agent": c.Get(fiber.HeaderUserAgent),
		}
		if s, ok := c.Locals(SessionKey).(Session.Session); ok {
			fields["account_id"] = s.AccountID
		}
		entry := log.WithFields(fields)
		if err != nil {
			entry = entry.WithError(err)
		}

		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= fiber.StatusBadRequest, latency > cfg.SlowThreshold:
			entry.Warn("Request")
		default:
			entry.Info("Request")
		}
		return err
	}
}
