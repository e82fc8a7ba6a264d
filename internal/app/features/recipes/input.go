package recipes

import (
	"strconv"
	"strings"

	recipestore "github.com/valera-kram/recipe-app-api/internal/app/store/recipes"
	"github.com/valera-kram/recipe-app-api/internal/app/system/htmlsanitize"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/normalize"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// priceText holds the raw price as sent, string or number, so that a bad
// value becomes a field error instead of a decode failure.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unq
	}
	*p = priceText(s)
	return nil
}

// recipeInput is the body of create and update requests. Absent fields
// decode to nil. Unknown fields, including any owner field, are ignored.
type recipeInput struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *priceText       `json:"price" validate:"omitempty,price"`
	Link        *string          `json:"link" validate:"omitempty,max=255,httpurl"`
	Tags        []models.NameRef `json:"tags" validate:"dive"`
	Ingredients []models.NameRef `json:"ingredients" validate:"dive"`
}

func (in *recipeInput) normalize() {
	if in.Title != nil {
		t := normalize.Name(*in.Title)
		in.Title = &t
	}
	if in.Description != nil {
		d := htmlsanitize.PlainText(*in.Description)
		in.Description = &d
	}
	if in.Link != nil {
		l := strings.TrimSpace(*in.Link)
		in.Link = &l
	}
	for i := range in.Tags {
		in.Tags[i].Name = normalize.Name(in.Tags[i].Name)
	}
	for i := range in.Ingredients {
		in.Ingredients[i].Name = normalize.Name(in.Ingredients[i].Name)
	}
}

// check validates the input. When partial is false (create and PUT),
// title, time_minutes, and price are required.
func (in *recipeInput) check(partial bool) *inputval.Result {
	res := inputval.Validate(in)

	if in.Title != nil && *in.Title == "" {
		res.Add("title", "This field may not be blank.")
	}
	if !partial {
		if in.Title == nil {
			res.Add("title", "This field is required.")
		}
		if in.TimeMinutes == nil {
			res.Add("time_minutes", "This field is required.")
		}
		if in.Price == nil {
			res.Add("price", "This field is required.")
		}
	}
	return res
}

func (in *recipeInput) price() models.Price {
	if in.Price == nil {
		return models.Price{}
	}
	// check has already rejected unparsable prices.
	p, _ := models.ParsePrice(string(*in.Price))
	return p
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// recipe builds a new recipe from a fully validated input.
func (in *recipeInput) recipe(owner primitive.ObjectID, tagIDs, ingredientIDs []int64) models.Recipe {
	return models.Recipe{
		UserID:        owner,
		Title:         deref(in.Title),
		Description:   deref(in.Description),
		TimeMinutes:   deref(in.TimeMinutes),
		Price:         in.price(),
		Link:          deref(in.Link),
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	}
}

// update builds the partial write. Label ids are filled in by the caller
// after reconciliation.
func (in *recipeInput) update() recipestore.Update {
	upd := recipestore.Update{
		Title:       in.Title,
		Description: in.Description,
		TimeMinutes: in.TimeMinutes,
		Link:        in.Link,
	}
	if in.Price != nil {
		p := in.price()
		upd.Price = &p
	}
	return upd
}
