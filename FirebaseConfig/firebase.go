package FirebaseConfig

import (
	"context"
	"errors"
	"fmt"

	"MagicPlanner/Config"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrDisabled = errors.New("firebase is not configured")

// Clients are the Firebase services the planner talks to.
type Clients struct {
	Firestore  *firestore.Client
	Messaging  *messaging.Client
	Bucket     *gcs.BucketHandle
	BucketName string
}

// Init builds the Firebase app from the service account file in cfg.
func Init(ctx context.Context, cfg Config.Config) (*Clients, error) {
	if !cfg.FirebaseEnabled() {
		return nil, ErrDisabled
	}
	opt := option.WithCredentialsFile(cfg.FirebaseCredentials)

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseBucket,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	fcm, err := app.Messaging(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error getting Storage client: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error opening bucket %s: %w", cfg.FirebaseBucket, err)
	}

	log.WithFields(log.Fields{"project": cfg.FirebaseProjectID, "bucket": cfg.FirebaseBucket}).Info("Firebase initialized")
	return &Clients{Firestore: store, Messaging: fcm, Bucket: bucket, BucketName: cfg.FirebaseBucket}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
