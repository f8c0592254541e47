package tags

import (
	"testing"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/filter"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		concepts []Concept
		want     []string
	}{
		{
			name:     "dedup and threshold",
			concepts: []Concept{{"pizza", 0.9}, {"pizza", 0.9}, {"salad", 0.3}},
			want:     []string{"pizza"},
		},
		{
			name:     "threshold is exclusive",
			concepts: []Concept{{"bread", 0.5}, {"cheese", 0.5000001}},
			want:     []string{"cheese"},
		},
		{
			name:     "first seen wins across case",
			concepts: []Concept{{"Sushi", 0.8}, {"rice", 0.7}, {"sushi", 0.99}},
			want:     []string{"Sushi", "rice"},
		},
		{
			name:     "blank labels dropped",
			concepts: []Concept{{"  ", 0.9}, {" noodles ", 0.9}},
			want:     []string{"noodles"},
		},
		{
			name:     "nothing confident",
			concepts: []Concept{{"food", 0.1}},
			want:     []string{},
		},
		{
			name: "nil input",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.concepts)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpand(t *testing.T) {
	conds := Expand([]string{"pizza", "salad"})
	if len(conds) != 4 {
		t.Fatalf("expected 4 conditions, got %d", len(conds))
	}

	want := []struct{ key, value string }{
		{restaurant.FieldCuisines, "pizza"},
		{restaurant.FieldName, "pizza"},
		{restaurant.FieldCuisines, "salad"},
		{restaurant.FieldName, "salad"},
	}
	for i, w := range want {
		if conds[i].Key() != w.key || conds[i].Contains() != w.value {
			t.Errorf("condition %d: got %s, want @%s:*%s*", i, conds[i], w.key, w.value)
		}
	}
}

func TestExpand_MatchesByNameOrCuisine(t *testing.T) {
	e, err := filter.NewExpression(nil, Expand([]string{"pizza"}), nil)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	mk := func(name, cuisines string) *restaurant.Restaurant {
		r := restaurant.Reconstruct("1", name, cuisines, nil, nil, 1, "", restaurant.Details{})
		return &r
	}

	if !e.Matches(mk("Joe's PIZZA", "American")) {
		t.Error("expected name match")
	}
	if !e.Matches(mk("Trattoria", "Italian, Pizza")) {
		t.Error("expected cuisine match")
	}
	if e.Matches(mk("Sushi Zen", "Japanese")) {
		t.Error("unexpected match")
	}
}

func TestExpand_CapsAtGroupLimit(t *testing.T) {
	labels := make([]string, filter.MaxConditionsPerGroup)
	for i := range labels {
		labels[i] = string(rune('a'+i%26)) + "x"
	}
	conds := Expand(labels)
	if len(conds) != filter.MaxConditionsPerGroup {
		t.Errorf("expected %d conditions, got %d", filter.MaxConditionsPerGroup, len(conds))
	}
}
