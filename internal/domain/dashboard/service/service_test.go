package service

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	analysisentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/cache"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// fakePosts serves canned post rows and records the last query
type fakePosts struct {
	posts []postentity.Post
	query PostQuery
}

func (f *fakePosts) ListPosts(_ context.Context, in PostQuery) ([]postentity.Post, int64, error) {
	f.query = in
	return f.posts, int64(len(f.posts)), nil
}

func (f *fakePosts) EngagementBaselines(_ context.Context, _ *time.Time) (*postentity.EngagementTotals, error) {
	return &postentity.EngagementTotals{}, nil
}

func (f *fakePosts) Statistics(_ context.Context) (*postentity.PostStatistics, error) {
	return &postentity.PostStatistics{}, nil
}

type fakeAnalyses struct{}

func (fakeAnalyses) MapsForPosts(_ context.Context, _ []postentity.Post) (*analysisentity.AnalysisMaps, error) {
	return analysisentity.BuildAnalysisMaps(nil), nil
}

func newTestService(posts *fakePosts) (*Service, *cache.SnapshotCache) {
	snapshots := cache.NewSnapshotCache(time.Minute, nil)
	return New(posts, fakeAnalyses{}, snapshots, cache.NewMutableCache()), snapshots
}

func TestGetDashboardFilterPassthrough(t *testing.T) {
	posts := &fakePosts{}
	svc, _ := newTestService(posts)

	_, err := svc.GetDashboard(context.Background(), Query{
		Filters: entity.FilterState{
			TimeRange:    entity.TimeRangeAll,
			Relevance:    []string{"yes"},
			Priority:     []string{"high", "medium"},
			CreatorTypes: []string{"influencer"},
			Platforms:    []string{"douyin"},
		},
	})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}

	if !reflect.DeepEqual(posts.query.Priorities, []string{"high", "medium"}) {
		t.Fatalf("priorities reaching the post source = %v", posts.query.Priorities)
	}
	if !reflect.DeepEqual(posts.query.Relevance, []string{"yes"}) {
		t.Fatalf("relevance reaching the post source = %v", posts.query.Relevance)
	}
	if !reflect.DeepEqual(posts.query.Platforms, []string{"douyin"}) {
		t.Fatalf("platforms reaching the post source = %v", posts.query.Platforms)
	}
	if !reflect.DeepEqual(posts.query.CreatorTypes, []string{"influencer"}) {
		t.Fatalf("creator types reaching the post source = %v", posts.query.CreatorTypes)
	}
	if posts.query.Limit != fetchLimit {
		t.Fatalf("fetch limit = %d, want %d", posts.query.Limit, fetchLimit)
	}
}

func TestDrillTransitionsOnCachedSnapshot(t *testing.T) {
	svc, _ := newTestService(&fakePosts{})

	out, err := svc.GetDashboard(context.Background(), Query{
		Filters: entity.FilterState{TimeRange: entity.TimeRangeAll},
	})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	key := out.Key

	drill, err := svc.DrillDown(key, "相关", "")
	if err != nil {
		t.Fatalf("DrillDown to secondary: %v", err)
	}
	if drill.Level != entity.DrillSecondary || drill.RelevanceCategory != "相关" {
		t.Fatalf("drill = %+v", drill)
	}

	drill, err = svc.DrillDown(key, "", "high")
	if err != nil {
		t.Fatalf("DrillDown to tertiary: %v", err)
	}
	if drill.Level != entity.DrillTertiary || drill.SeverityBucket != "high" {
		t.Fatalf("drill = %+v", drill)
	}

	if _, err := svc.DrillDown(key, "", ""); err != entity.ErrDrillNotAtSecondary {
		t.Fatalf("drill past tertiary: err = %v", err)
	}

	drill, err = svc.DrillBack(key)
	if err != nil {
		t.Fatalf("DrillBack: %v", err)
	}
	if drill.Level != entity.DrillSecondary || drill.SeverityBucket != "" {
		t.Fatalf("drill after back = %+v", drill)
	}

	if _, err := svc.DrillDown("unknown-key", "相关", ""); err != cache.ErrSnapshotExpired {
		t.Fatalf("drill on unknown key: err = %v", err)
	}
}

func TestDrillConcurrentRequests(t *testing.T) {
	svc, snapshots := newTestService(&fakePosts{})

	out, err := svc.GetDashboard(context.Background(), Query{
		Filters: entity.FilterState{TimeRange: entity.TimeRangeAll},
	})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	key := out.Key

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				svc.DrillDown(key, "相关", "high")
				svc.DrillBack(key)
			}
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the cached state must be one of
	// the coherent drill positions.
	drill := snapshots.GetIfFresh(key).Drill
	switch drill.Level {
	case entity.DrillPrimary:
		if drill.RelevanceCategory != "" || drill.SeverityBucket != "" {
			t.Fatalf("primary with selections: %+v", drill)
		}
	case entity.DrillSecondary:
		if drill.RelevanceCategory == "" || drill.SeverityBucket != "" {
			t.Fatalf("incoherent secondary state: %+v", drill)
		}
	case entity.DrillTertiary:
		if drill.RelevanceCategory == "" || drill.SeverityBucket == "" {
			t.Fatalf("incoherent tertiary state: %+v", drill)
		}
	default:
		t.Fatalf("unknown drill level %q", drill.Level)
	}
}
