package Models

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the on-device store and migrates it.
func Connect(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening session store %s: %w", path, err)
	}

	if err := connection.AutoMigrate(&SessionRecord{}); err != nil {
		return nil, fmt.Errorf("error migrating session store: %w", err)
	}

	log.WithField("path", path).Debug("Session store ready")
	return connection, nil
}
