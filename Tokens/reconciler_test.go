package Tokens

import (
	"context"
	"errors"
	"testing"

	"MagicPlanner/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	stored    *Models.DeviceToken
	fetchErr  error
	deleteErr error
	creates   []string
	updates   []string
	deletes   []string
}

func (f *fakeStore) FetchDeviceToken(context.Context, int64, string) (*Models.DeviceToken, error) {
	return f.stored, f.fetchErr
}

func (f *fakeStore) RegisterDeviceToken(_ context.Context, accountID int64, modelID, token string) (*Models.DeviceToken, error) {
	f.creates = append(f.creates, token)
	return &Models.DeviceToken{ID: 1, AccountID: accountID, ModelID: modelID, Token: token}, nil
}

func (f *fakeStore) UpdateDeviceToken(_ context.Context, _ int64, _ string, token string) error {
	f.updates = append(f.updates, token)
	return nil
}

func (f *fakeStore) DeleteDeviceToken(_ context.Context, token string) error {
	f.deletes = append(f.deletes, token)
	return f.deleteErr
}

type fakeChannel struct {
	joined []string
	left   []string
	err    error
}

func (f *fakeChannel) Register(_ context.Context, _ int64, token string) error {
	f.joined = append(f.joined, token)
	return f.err
}

func (f *fakeChannel) Unregister(_ context.Context, _ int64, token string) error {
	f.left = append(f.left, token)
	return f.err
}

func TestReconcileCreatesWhenMissing(t *testing.T) {
	store, channel := &fakeStore{}, &fakeChannel{}
	r := NewReconciler(store, channel)

	outcome, err := r.Reconcile(context.Background(), 7, "Pixel 7", "fresh")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, []string{"fresh"}, store.creates)
	assert.Empty(t, store.updates)
	assert.Equal(t, []string{"fresh"}, channel.joined)
}

func TestReconcileUpdatesWhenDifferent(t *testing.T) {
	store := &fakeStore{stored: &Models.DeviceToken{ID: 1, Token: "old"}}
	r := NewReconciler(store, nil)

	outcome, err := r.Reconcile(context.Background(), 7, "Pixel 7", "fresh")
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, []string{"fresh"}, store.updates)
	assert.Empty(t, store.creates)
}

func TestReconcileUnchanged(t *testing.T) {
	store, channel := &fakeStore{stored: &Models.DeviceToken{ID: 1, Token: "same"}}, &fakeChannel{}
	r := NewReconciler(store, channel)

	outcome, err := r.Reconcile(context.Background(), 7, "Pixel 7", "same")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Empty(t, store.creates)
	assert.Empty(t, store.updates)
	assert.Empty(t, channel.joined)
}

func TestReconcileLookupFailureCreatesNothing(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("offline")}
	r := NewReconciler(store, nil)

	_, err := r.Reconcile(context.Background(), 7, "Pixel 7", "fresh")
	assert.Error(t, err)
	assert.Empty(t, store.creates)
	assert.Empty(t, store.updates)
}

func TestReconcileWithoutToken(t *testing.T) {
	r := NewReconciler(&fakeStore{}, nil)
	_, err := r.Reconcile(context.Background(), 7, "Pixel 7", "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestReconcileChannelFailureIsNotFatal(t *testing.T) {
	store, channel := &fakeStore{}, &fakeChannel{err: errors.New("fcm down")}
	r := NewReconciler(store, channel)

	outcome, err := r.Reconcile(context.Background(), 7, "Pixel 7", "fresh")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
}

func TestRelease(t *testing.T) {
	store, channel := &fakeStore{}, &fakeChannel{}
	r := NewReconciler(store, channel)

	require.NoError(t, r.Release(context.Background(), 7, "tok"))
	assert.Equal(t, []string{"tok"}, store.deletes)
	assert.Equal(t, []string{"tok"}, channel.left)

	assert.ErrorIs(t, r.Release(context.Background(), 7, ""), ErrNoToken)
}

func TestReleaseRunsBothSteps(t *testing.T) {
	store, channel := &fakeStore{deleteErr: errors.New("gone")}, &fakeChannel{}
	r := NewReconciler(store, channel)

	err := r.Release(context.Background(), 7, "tok")
	assert.Error(t, err)
	assert.Equal(t, []string{"tok"}, channel.left)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "account-42", Topic(42))
}
