package Session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrUnknownCode = errors.New("unknown login code")
	ErrEmptyCode   = errors.New("login code is empty")
)

// CodeSource lists the QR login codes known to the backend.
type CodeSource interface {
	FetchLoginCodes(ctx context.Context) ([]Models.LoginCode, error)
}

// Session is the logged-in child on this device.
type Session struct {
	AccountID int64
	Email     string
	Secret    string
	PushToken string
	Profile   Models.Account
}

// Manager owns the single persisted session of the device.
type Manager struct {
	db    *gorm.DB
	codes CodeSource
	key   [32]byte

	mu      sync.Mutex
	current *Session
}

func NewManager(db *gorm.DB, codes CodeSource, key [32]byte) *Manager {
	return &Manager{db: db, codes: codes, key: key}
}

// Restore loads the persisted session, if any. A record that can no longer
// be opened is discarded and reported as ErrNotLoggedIn.
func (m *Manager) Restore() (Session, error) {
	var rec Models.SessionRecord
	err := m.db.Order("id desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, fmt.Errorf("error reading session: %w", err)
	}

	secret, err := open(&m.key, rec.SealedSecret)
	if err != nil {
		log.WithError(err).Warn("Discarding unreadable session")
		if err := m.clear(); err != nil {
			return Session{}, err
		}
		return Session{}, ErrNotLoggedIn
	}

	s := Session{AccountID: rec.AccountID, Email: rec.Email, Secret: string(secret), PushToken: rec.PushToken}
	if len(rec.Profile) > 0 {
		if err := json.Unmarshal(rec.Profile, &s.Profile); err != nil {
			log.WithError(err).Warn("Stored profile unreadable")
		}
	}
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	log.WithField("account_id", s.AccountID).Info("Session restored")
	return s, nil
}

// Current returns the active session.
func (m *Manager) Current() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, ErrNotLoggedIn
	}
	return *m.current, nil
}

// LoginWithCode matches a scanned code exactly against the backend's codes
// and makes the matched child the session of this device.
func (m *Manager) LoginWithCode(ctx context.Context, code string) (Models.Account, error) {
	if code == "" {
		return Models.Account{}, ErrEmptyCode
	}
	codes, err := m.codes.FetchLoginCodes(ctx)
	if err != nil {
		return Models.Account{}, fmt.Errorf("error fetching login codes: %w", err)
	}

	var child *Models.Account
	for i := range codes {
		if codes[i].Code == code {
			child = &codes[i].Child
			break
		}
	}
	if child == nil {
		return Models.Account{}, ErrUnknownCode
	}

	sealed, err := seal(&m.key, []byte(child.Password))
	if err != nil {
		return Models.Account{}, fmt.Errorf("error sealing secret: %w", err)
	}
	account := *child
	account.Password = ""
	profile, err := json.Marshal(account)
	if err != nil {
		return Models.Account{}, fmt.Errorf("error encoding profile: %w", err)
	}
	rec := Models.SessionRecord{AccountID: child.ID, Email: child.Email, SealedSecret: sealed, Profile: datatypes.JSON(profile)}
	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&Models.SessionRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return Models.Account{}, fmt.Errorf("error saving session: %w", err)
	}

	m.mu.Lock()
	m.current = &Session{AccountID: child.ID, Email: child.Email, Secret: child.Password, Profile: account}
	m.mu.Unlock()

	log.WithField("account_id", child.ID).Info("Logged in with code")
	return account, nil
}

// SetPushToken remembers the device's push token for logout.
func (m *Manager) SetPushToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNotLoggedIn
	}
	err := m.db.Model(&Models.SessionRecord{}).
		Where("account_id = ?", m.current.AccountID).
		Update("push_token", token).Error
	if err != nil {
		return fmt.Errorf("error saving push token: %w", err)
	}
	m.current.PushToken = token
	return nil
}

// Logout forgets the session and returns it so the caller can release
// what belonged to it.
func (m *Manager) Logout() (Session, error) {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if err := m.clear(); err != nil {
		return Session{}, err
	}
	if prev == nil {
		return Session{}, ErrNotLoggedIn
	}
	log.WithField("account_id", prev.AccountID).Info("Logged out")
	return *prev, nil
}

func (m *Manager) clear() error {
	err := m.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&Models.SessionRecord{}).Error
	if err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	return nil
}
