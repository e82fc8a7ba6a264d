// Package listfilter parses list query parameters and builds the MongoDB
// filters for owner-scoped recipe and label listings.
package listfilter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrAssignedOnly is returned for assigned_only values other than 0 or 1.
var ErrAssignedOnly = errors.New("Must be 0 or 1.")

// ParseIDs parses a comma-separated list of integer ids such as "1,2, 3".
// An empty or blank string yields nil (no filter). Empty items between
// commas are skipped; any other non-integer item is an error.
func ParseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id.", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseAssignedOnly interprets the assigned_only parameter: "" and "0"
// are false, "1" is true.
func ParseAssignedOnly(raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, ErrAssignedOnly
}

// RecipeFilter restricts recipes to owner and, when the id lists are
// non-empty, to recipes with at least one of tagIDs and at least one of
// ingredientIDs. Each recipe is a single document, so a recipe matching
// several ids is returned once.
func RecipeFilter(owner primitive.ObjectID, tagIDs, ingredientIDs []int64) bson.M {
	f := bson.M{"user_id": owner}
	if len(tagIDs) > 0 {
		f["tag_ids"] = bson.M{"$in": tagIDs}
	}
	if len(ingredientIDs) > 0 {
		f["ingredient_ids"] = bson.M{"$in": ingredientIDs}
	}
	return f
}

// LabelFilter restricts tags or ingredients to owner and, when onlyIDs is
// non-nil, to those ids. A non-nil empty onlyIDs matches nothing.
func LabelFilter(owner primitive.ObjectID, onlyIDs []int64) bson.M {
	f := bson.M{"user_id": owner}
	if onlyIDs != nil {
		f["_id"] = bson.M{"$in": onlyIDs}
	}
	return f
}
