package Tokens

import (
	"context"
	"errors"
	"fmt"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

// ErrNoToken is returned when there is no push token to work with.
var ErrNoToken = errors.New("no push token")

// Store is the backend side of device tokens.
type Store interface {
	FetchDeviceToken(ctx context.Context, accountID int64, modelID string) (*Models.DeviceToken, error)
	RegisterDeviceToken(ctx context.Context, accountID int64, modelID, token string) (*Models.DeviceToken, error)
	UpdateDeviceToken(ctx context.Context, accountID int64, modelID, token string) error
	DeleteDeviceToken(ctx context.Context, token string) error
}

// Channel is the push delivery side: the device joins it when its token is
// registered and leaves it at logout.
type Channel interface {
	Register(ctx context.Context, accountID int64, token string) error
	Unregister(ctx context.Context, accountID int64, token string) error
}

type Outcome string

const (
	Created   Outcome = "created"
	Updated   Outcome = "updated"
	Unchanged Outcome = "unchanged"
)

// Reconciler keeps exactly one token row per account and device model.
type Reconciler struct {
	store   Store
	channel Channel
}

// NewReconciler builds a reconciler. channel may be nil when push delivery is not configured.
func NewReconciler(store Store, channel Channel) *Reconciler {
	return &Reconciler{store: store, channel: channel}
}

// Reconcile creates the row when the device has none and updates it in place
// when the stored token differs from fresh. A failed lookup creates nothing.
func (r *Reconciler) Reconcile(ctx context.Context, accountID int64, modelID, fresh string) (Outcome, error) {
	if fresh == "" {
		return "", ErrNoToken
	}
	entry := log.WithFields(log.Fields{"account_id": accountID, "model_id": modelID})

	existing, err := r.store.FetchDeviceToken(ctx, accountID, modelID)
	if err != nil {
		return "", fmt.Errorf("looking up device token: %w", err)
	}

	var outcome Outcome
	switch {
	case existing == nil:
		if _, err := r.store.RegisterDeviceToken(ctx, accountID, modelID, fresh); err != nil {
			return "", fmt.Errorf("registering device token: %w", err)
		}
		outcome = Created
	case existing.Token != fresh:
		if err := r.store.UpdateDeviceToken(ctx, accountID, modelID, fresh); err != nil {
			return "", fmt.Errorf("updating device token: %w", err)
		}
		outcome = Updated
	default:
		outcome = Unchanged
	}

	if outcome != Unchanged && r.channel != nil {
		if err := r.channel.Register(ctx, accountID, fresh); err != nil {
			entry.WithError(err).Warn("Push channel registration failed")
		}
	}
	entry.WithField("outcome", outcome).Info("Device token reconciled")
	return outcome, nil
}

// Release deletes the token row and leaves the push channel, at logout.
// Both steps run even if the first fails.
func (r *Reconciler) Release(ctx context.Context, accountID int64, token string) error {
	if token == "" {
		return ErrNoToken
	}
	var errs []error
	if err := r.store.DeleteDeviceToken(ctx, token); err != nil {
		errs = append(errs, fmt.Errorf("deleting device token: %w", err))
	}
	if r.channel != nil {
		if err := r.channel.Unregister(ctx, accountID, token); err != nil {
			errs = append(errs, fmt.Errorf("leaving push channel: %w", err))
		}
	}
	return errors.Join(errs...)
}
