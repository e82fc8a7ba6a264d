package listfilter

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		raw     string
		want    []int64
		wantErr bool
	}{
		{"", nil, false},
		{"   ", nil, false},
		{"1", []int64{1}, false},
		{"1,2,3", []int64{1, 2, 3}, false},
		{" 4 , 5 ", []int64{4, 5}, false},
		{"1,,2", []int64{1, 2}, false},
		{"1,abc", nil, true},
		{"1.5", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseIDs(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDs(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseAssignedOnly(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"0", false, false},
		{"1", true, false},
		{"true", false, true},
		{"2", false, true},
	}
	for _, tt := range tests {
		got, err := ParseAssignedOnly(tt.raw)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseAssignedOnly(%q) = %v, %v", tt.raw, got, err)
		}
	}
}

func TestRecipeFilter(t *testing.T) {
	owner := primitive.NewObjectID()

	got := RecipeFilter(owner, nil, nil)
	if !reflect.DeepEqual(got, bson.M{"user_id": owner}) {
		t.Errorf("no ids: %v", got)
	}

	got = RecipeFilter(owner, []int64{1, 2}, []int64{3})
	want := bson.M{
		"user_id":        owner,
		"tag_ids":        bson.M{"$in": []int64{1, 2}},
		"ingredient_ids": bson.M{"$in": []int64{3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with ids: %v, want %v", got, want)
	}
}

func TestLabelFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	if got := LabelFilter(owner, nil); len(got) != 1 {
		t.Errorf("nil ids should not restrict: %v", got)
	}
	got := LabelFilter(owner, []int64{})
	if _, ok := got["_id"]; !ok {
		t.Errorf("empty ids should restrict to nothing: %v", got)
	}
}
