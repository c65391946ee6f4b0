package Session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"MagicPlanner/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type codeList struct {
	codes []Models.LoginCode
	err   error
}

func (c codeList) FetchLoginCodes(context.Context) ([]Models.LoginCode, error) {
	return c.codes, c.err
}

var codes = codeList{codes: []Models.LoginCode{
	{Code: "QR-ANA", Child: Models.Account{ID: 4, Name: "Ana", Email: "ana@example.com", Password: "s3cret"}},
	{Code: "QR-MAREK", Child: Models.Account{ID: 5, Name: "Marek", Male: true, Email: "marek@example.com", Password: "pw"}},
}}

func testKey(b byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func openDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := Models.Connect(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestLoginRestoreLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	m := NewManager(openDB(t, path), codes, testKey(1))

	_, err := m.Current()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	account, err := m.LoginWithCode(context.Background(), "QR-MAREK")
	require.NoError(t, err)
	assert.Equal(t, int64(5), account.ID)
	assert.Empty(t, account.Password)

	require.NoError(t, m.SetPushToken("tok-1"))

	restored := NewManager(openDB(t, path), codes, testKey(1))
	s, err := restored.Restore()
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.AccountID)
	assert.Equal(t, "marek@example.com", s.Email)
	assert.Equal(t, "pw", s.Secret)
	assert.Equal(t, "tok-1", s.PushToken)
	assert.Equal(t, Models.Account{ID: 5, Name: "Marek", Male: true, Email: "marek@example.com"}, s.Profile)

	prev, err := restored.Logout()
	require.NoError(t, err)
	assert.Equal(t, int64(5), prev.AccountID)

	_, err = restored.Current()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = NewManager(openDB(t, path), codes, testKey(1)).Restore()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	db := openDB(t, filepath.Join(t.TempDir(), "session.db"))
	m := NewManager(db, codes, testKey(1))

	_, err := m.LoginWithCode(context.Background(), "QR-ANA")
	require.NoError(t, err)
	_, err = m.LoginWithCode(context.Background(), "QR-MAREK")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&Models.SessionRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsUnknownCode(t *testing.T) {
	m := NewManager(openDB(t, filepath.Join(t.TempDir(), "session.db")), codes, testKey(1))
	ctx := context.Background()

	_, err := m.LoginWithCode(ctx, "qr-ana")
	assert.ErrorIs(t, err, ErrUnknownCode)
	_, err = m.LoginWithCode(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyCode)

	boom := errors.New("offline")
	m = NewManager(openDB(t, filepath.Join(t.TempDir(), "other.db")), codeList{err: boom}, testKey(1))
	_, err = m.LoginWithCode(ctx, "QR-ANA")
	assert.ErrorIs(t, err, boom)
}

func TestRestoreWithWrongKeyDiscardsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	_, err := NewManager(openDB(t, path), codes, testKey(1)).LoginWithCode(context.Background(), "QR-ANA")
	require.NoError(t, err)

	_, err = NewManager(openDB(t, path), codes, testKey(2)).Restore()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSealRoundTrip(t *testing.T) {
	key := testKey(9)
	box, err := seal(&key, []byte("hello"))
	require.NoError(t, err)
	assert.NotContains(t, string(box), "hello")

	plain, err := open(&key, box)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plain))

	_, err = open(&key, box[:10])
	assert.Error(t, err)
}
