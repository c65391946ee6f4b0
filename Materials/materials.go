package Materials

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"MagicPlanner/Models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const Collection = "materials"

// Catalogue lists instructional materials.
type Catalogue interface {
	List(ctx context.Context) ([]Models.Material, error)
}

// FirestoreCatalogue reads the materials collection.
type FirestoreCatalogue struct {
	client *firestore.Client
}

func NewFirestoreCatalogue(client *firestore.Client) *FirestoreCatalogue {
	return &FirestoreCatalogue{client: client}
}

func (c *FirestoreCatalogue) List(ctx context.Context) ([]Models.Material, error) {
	iter := c.client.Collection(Collection).Documents(ctx)
	defer iter.Stop()

	var out []Models.Material
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading materials: %w", err)
		}
		var m Models.Material
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("error decoding material %s: %w", doc.Ref.ID, err)
		}
		m.ID = doc.Ref.ID
		out = append(out, m)
	}
	return out, nil
}

// Browse lists materials newest first, keeping only the given kind when it is
// set. Materials of no known kind are left out.
func Browse(ctx context.Context, c Catalogue, kind string) ([]Models.Material, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Models.Material, 0, len(all))
	for _, m := range all {
		k := m.Kind()
		if k == "" {
			continue
		}
		if kind == "" || k == kind {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out, nil
}

// ValidKind reports whether kind is a filter Browse understands.
func ValidKind(kind string) bool {
	switch kind {
	case "", Models.MaterialImage, Models.MaterialVideo, Models.MaterialDocument:
		return true
	}
	return false
}
