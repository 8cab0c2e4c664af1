package entity

import (
	"reflect"
	"testing"

	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

func TestMapRelevantStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"yes", RelevanceRelevant},
		{"YES", RelevanceRelevant},
		{"Yes", RelevanceRelevant},
		{"maybe", RelevanceSuspected},
		{"MAYBE", RelevanceSuspected},
		{"no", RelevanceIrrelevant},
		{"No", RelevanceIrrelevant},
		{" yes ", RelevanceRelevant},
		{"", ""},
		{"unknown", ""},
		{"yess", ""},
		{"1", ""},
	}

	for _, c := range cases {
		if got := MapRelevantStatus(c.in); got != c.want {
			t.Errorf("MapRelevantStatus(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBackfillRelevance(t *testing.T) {
	posts := []postentity.Post{
		{PlatformItemID: "a", RelevantStatus: postentity.RelevantStatusYes},
		{PlatformItemID: "b", RelevantStatus: postentity.RelevantStatusNo},
		{PlatformItemID: "c"}, // unscreened, contributes nothing
		{PlatformItemID: "d", RelevantStatus: postentity.RelevantStatusMaybe},
	}
	existing := map[string]string{
		"a": RelevanceIrrelevant, // explicit analysis must win over pre-screening
	}

	got := BackfillRelevance(existing, posts)

	want := map[string]string{
		"a": RelevanceIrrelevant,
		"b": RelevanceIrrelevant,
		"d": RelevanceSuspected,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BackfillRelevance = %v, want %v", got, want)
	}

	t.Run("does not mutate input", func(t *testing.T) {
		if len(existing) != 1 || existing["a"] != RelevanceIrrelevant {
			t.Fatalf("input map was mutated: %v", existing)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		again := BackfillRelevance(got, posts)
		if !reflect.DeepEqual(again, got) {
			t.Fatalf("second application changed the map: %v vs %v", again, got)
		}
	})
}

func TestBuildAnalysisMaps(t *testing.T) {
	rows := []Analysis{
		{PlatformItemID: "a", Sentiment: SentimentNegative, RelevanceLabel: RelevanceRelevant,
			RiskCategories: []string{"food_safety", "service"}},
		{PlatformItemID: "b", RiskCategories: nil}, // analyzed, no risks found
		{PlatformItemID: "c", Sentiment: SentimentPositive,
			RiskCategories: []string{"food_safety"}},
	}

	m := BuildAnalysisMaps(rows)

	// Every analyzed row gets a risks key, even with an empty list.
	risks, ok := m.Risks["b"]
	if !ok {
		t.Fatal("item b missing from risks map; empty list expected, not absent key")
	}
	if len(risks) != 0 {
		t.Fatalf("item b risks = %v, want empty", risks)
	}

	// Sentiment/relevance keys appear only when the source field is present.
	if _, ok := m.Sentiments["b"]; ok {
		t.Error("item b should not have a sentiment entry")
	}
	if _, ok := m.Relevance["c"]; ok {
		t.Error("item c should not have a relevance entry")
	}
	if m.Sentiments["a"] != string(SentimentNegative) {
		t.Errorf("item a sentiment = %q", m.Sentiments["a"])
	}
	if m.Relevance["a"] != RelevanceRelevant {
		t.Errorf("item a relevance = %q", m.Relevance["a"])
	}

	if m.RiskCounts["food_safety"] != 2 || m.RiskCounts["service"] != 1 {
		t.Errorf("risk counts = %v", m.RiskCounts)
	}
}

func TestTopRisks(t *testing.T) {
	m := &AnalysisMaps{RiskCounts: map[string]int{
		"service":     3,
		"food_safety": 5,
		"hygiene":     3,
		"pricing":     1,
	}}

	got := m.TopRisks(3)
	want := []string{"food_safety", "hygiene", "service"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopRisks(3) = %v, want %v", got, want)
	}

	if all := m.TopRisks(0); len(all) != 4 {
		t.Fatalf("TopRisks(0) should return all categories, got %v", all)
	}
}
