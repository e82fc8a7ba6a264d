// Package reconcile turns the nested {name} records of a recipe payload
// into ids of the requesting user's tags or ingredients, creating the
// ones that do not exist yet.
package reconcile

import (
	"context"
	"fmt"

	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetOrCreator finds the owner's label with exactly this name, creating it
// when missing. created reports whether a new label was inserted.
type GetOrCreator interface {
	GetOrCreate(ctx context.Context, owner primitive.ObjectID, name string) (id int64, created bool, err error)
}

// Names resolves refs in order. Repeated names resolve once; the returned
// ids are in first-seen order with no duplicates. Name matching is exact
// and case-sensitive. created lists the ids of labels this call inserted,
// also when it stops on an error, so a caller without a transaction can
// remove them again.
//
// Validation of the names (non-empty, length) happens before this is
// called; Names does not write anything for a nil or empty refs.
func Names(ctx context.Context, store GetOrCreator, owner primitive.ObjectID, refs []models.NameRef) (ids, created []int64, err error) {
	if len(refs) == 0 {
		return []int64{}, nil, nil
	}
	seen := make(map[string]int64, len(refs))
	ids = make([]int64, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Name]; ok {
			continue
		}
		id, isNew, err := store.GetOrCreate(ctx, owner, ref.Name)
		if err != nil {
			return nil, created, fmt.Errorf("resolve %q: %w", ref.Name, err)
		}
		if isNew {
			created = append(created, id)
		}
		seen[ref.Name] = id
		ids = append(ids, id)
	}
	return ids, created, nil
}
