package Chat

import (
	"context"
	"errors"

	"MagicPlanner/Models"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps each conversation in a collection named after the e-mail.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (f *FirestoreStore) query(channel string, limit int) firestore.Query {
	q := f.client.Collection(channel).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (f *FirestoreStore) List(ctx context.Context, channel string, limit int) ([]Models.ChatMessage, error) {
	iter := f.query(channel, limit).Documents(ctx)
	defer iter.Stop()

	var msgs []Models.ChatMessage
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		msg, err := decode(doc)
		if err != nil {
			log.WithError(err).WithField("doc", doc.Ref.ID).Warn("Skipping malformed chat message")
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Add stores the message with a server-side creation time.
func (f *FirestoreStore) Add(ctx context.Context, channel string, msg Models.ChatMessage) (string, error) {
	ref, _, err := f.client.Collection(channel).Add(ctx, map[string]interface{}{
		"text":      msg.Text,
		"user":      map[string]interface{}{"_id": msg.User.ID, "avatar": msg.User.Avatar},
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Listen calls fn with the newest messages every time the conversation
// changes, until ctx is cancelled.
func (f *FirestoreStore) Listen(ctx context.Context, channel string, limit int, fn func([]Models.ChatMessage)) error {
	snaps := f.query(channel, limit).Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		var msgs []Models.ChatMessage
		for {
			doc, err := snap.Documents.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return err
			}
			if msg, err := decode(doc); err == nil {
				msgs = append(msgs, msg)
			}
		}
		fn(msgs)
	}
}

func decode(doc *firestore.DocumentSnapshot) (Models.ChatMessage, error) {
	var msg Models.ChatMessage
	if err := doc.DataTo(&msg); err != nil {
		return msg, err
	}
	msg.ID = doc.Ref.ID
	return msg, nil
}
