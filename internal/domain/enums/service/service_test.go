package service

import (
	"context"
	"testing"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/entity"
)

// fakeEnumRepo serves canned enumeration rows and counts reads
type fakeEnumRepo struct {
	values map[entity.Kind][]entity.Value
	reads  int
}

func (f *fakeEnumRepo) ListDistinct(_ context.Context, kind entity.Kind) ([]entity.Value, error) {
	f.reads++
	return f.values[kind], nil
}

func TestFetchGlobalFilterEnums(t *testing.T) {
	repo := &fakeEnumRepo{values: map[entity.Kind][]entity.Value{
		entity.KindPlatform: {
			{Kind: entity.KindPlatform, Value: "xiaohongshu"},
			{Kind: entity.KindPlatform, Value: "douyin"},
		},
		entity.KindSentiment: {
			{Kind: entity.KindSentiment, Value: "negative"},
			{Kind: entity.KindSentiment, Value: "positive"},
			{Kind: entity.KindSentiment, Value: "neutral"},
		},
		entity.KindRiskScenario: {
			{Kind: entity.KindRiskScenario, Value: "food_safety", Label: "食品安全"},
			{Kind: entity.KindRiskScenario, Value: "mystery_code"}, // no table entry, no stored label
		},
	}}

	svc := New(repo, time.Minute)
	out, err := svc.FetchGlobalFilterEnums(context.Background())
	if err != nil {
		t.Fatalf("FetchGlobalFilterEnums: %v", err)
	}

	t.Run("all option heads every menu", func(t *testing.T) {
		for name, options := range map[string][]entity.Option{
			"channels":   out.Channels,
			"sentiments": out.Sentiments,
			"risks":      out.Risks,
		} {
			if len(options) == 0 || options[0].Value != entity.AllOptionValue {
				t.Errorf("%s menu does not start with the all option: %v", name, options)
			}
		}
	})

	t.Run("platform labels normalized and label-sorted", func(t *testing.T) {
		got := out.Channels[1:]
		if len(got) != 2 || got[0].Label != "小红书" || got[1].Label != "抖音" {
			t.Fatalf("channels = %v", got)
		}
	})

	t.Run("sentiment keeps domain order", func(t *testing.T) {
		got := out.Sentiments[1:]
		want := []string{"positive", "neutral", "negative"}
		for i, w := range want {
			if got[i].Value != w {
				t.Fatalf("sentiments = %v, want order %v", got, want)
			}
		}
	})

	t.Run("unknown code falls back through label chain", func(t *testing.T) {
		got := out.Risks[1:]
		// "mystery_code" has neither table entry nor stored label: label
		// must fall back to the raw code, never fail.
		var found bool
		for _, o := range got {
			if o.Value == "mystery_code" && o.Label == "mystery_code" {
				found = true
			}
		}
		if !found {
			t.Fatalf("risks = %v, want mystery_code with raw-code label", got)
		}
	})

	t.Run("second fetch inside TTL hits the cache", func(t *testing.T) {
		reads := repo.reads
		if _, err := svc.FetchGlobalFilterEnums(context.Background()); err != nil {
			t.Fatalf("FetchGlobalFilterEnums: %v", err)
		}
		if repo.reads != reads {
			t.Fatalf("repository read again inside TTL: %d -> %d", reads, repo.reads)
		}
	})
}
