package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeviceToken associates an account and a device model with a push token.
type DeviceToken struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"accountId"`
	ModelID   string `json:"modelId"`
	Token     string `json:"token"`
}

// SessionRecord is the persisted login of this device. There is at most one row.
// Profile keeps the account as it was at login, without its password.
type SessionRecord struct {
	gorm.Model
	AccountID    int64
	Email        string
	SealedSecret []byte
	PushToken    string
	Profile      datatypes.JSON
}
