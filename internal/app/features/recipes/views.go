package recipes

import (
	"context"

	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type labelView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// recipeView is a list item.
type recipeView struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       models.Price `json:"price"`
	Link        string       `json:"link"`
	Tags        []labelView  `json:"tags"`
	Ingredients []labelView  `json:"ingredients"`
}

// detailView adds the fields only shown for a single recipe.
type detailView struct {
	recipeView
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type imageView struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// labelIndex resolves label ids for a batch of recipes with one query
// per label kind.
type labelIndex struct {
	tags        map[int64]models.Tag
	ingredients map[int64]models.Ingredient
}

func (h *Handler) loadLabels(ctx context.Context, owner primitive.ObjectID, rs ...models.Recipe) (labelIndex, error) {
	var tagIDs, ingIDs []int64
	for _, r := range rs {
		tagIDs = append(tagIDs, r.TagIDs...)
		ingIDs = append(ingIDs, r.IngredientIDs...)
	}
	tags, err := h.Tags.ByIDs(ctx, owner, tagIDs)
	if err != nil {
		return labelIndex{}, err
	}
	ings, err := h.Ingredients.ByIDs(ctx, owner, ingIDs)
	if err != nil {
		return labelIndex{}, err
	}
	return labelIndex{tags: tags, ingredients: ings}, nil
}

// view keeps the recipe's association order and skips dangling ids.
func (ix labelIndex) view(r models.Recipe) recipeView {
	v := recipeView{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        []labelView{},
		Ingredients: []labelView{},
	}
	for _, id := range r.TagIDs {
		if t, ok := ix.tags[id]; ok {
			v.Tags = append(v.Tags, labelView{ID: t.ID, Name: t.Name})
		}
	}
	for _, id := range r.IngredientIDs {
		if i, ok := ix.ingredients[id]; ok {
			v.Ingredients = append(v.Ingredients, labelView{ID: i.ID, Name: i.Name})
		}
	}
	return v
}

func (h *Handler) detail(ix labelIndex, r models.Recipe) detailView {
	d := detailView{recipeView: ix.view(r), Description: r.Description}
	if r.HasImage() && h.Images != nil {
		u := h.Images.URL(r.Image)
		d.Image = &u
	}
	return d
}
