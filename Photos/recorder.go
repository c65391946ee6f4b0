package Photos

import (
	"context"
	"fmt"

	"MagicPlanner/Models"

	"cloud.google.com/go/firestore"
)

// PhotosCollection holds one document per uploaded proof.
const PhotosCollection = "task_photos"

type FirestoreRecorder struct {
	client *firestore.Client
}

func NewFirestoreRecorder(client *firestore.Client) *FirestoreRecorder {
	return &FirestoreRecorder{client: client}
}

func (r *FirestoreRecorder) Record(ctx context.Context, rec Models.PhotoRecord) error {
	if _, _, err := r.client.Collection(PhotosCollection).Add(ctx, rec); err != nil {
		return fmt.Errorf("adding %s document: %w", PhotosCollection, err)
	}
	return nil
}
