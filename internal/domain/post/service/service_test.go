package service

import (
	"context"
	"testing"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/dao"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// fakePostRepo stores posts in memory, keyed by ID
type fakePostRepo struct {
	posts   map[string]*entity.Post
	creates int
	updates int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*entity.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *entity.Post) error {
	f.creates++
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	return f.posts[id], nil
}

func (f *fakePostRepo) GetByPlatformItemID(_ context.Context, platform entity.Platform, itemID string) (*entity.Post, error) {
	for _, p := range f.posts {
		if p.Platform == platform && p.PlatformItemID == itemID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *entity.Post) error {
	f.updates++
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) List(_ context.Context, _ dao.PostFilter, _ dao.ListOptions) ([]entity.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) Count(_ context.Context, _ dao.PostFilter) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) SetMarked(_ context.Context, id string, marked bool) error {
	p, ok := f.posts[id]
	if !ok {
		return entity.ErrPostNotFound
	}
	p.IsMarked = marked
	return nil
}

func (f *fakePostRepo) SetRelevantStatus(_ context.Context, id string, status entity.RelevantStatus) error {
	p, ok := f.posts[id]
	if !ok {
		return entity.ErrPostNotFound
	}
	p.RelevantStatus = status
	return nil
}

func (f *fakePostRepo) SetCoverURL(_ context.Context, id string, url string) error {
	p, ok := f.posts[id]
	if !ok {
		return entity.ErrPostNotFound
	}
	p.CoverURL = url
	return nil
}

func (f *fakePostRepo) ListUnanalyzed(_ context.Context, _ int) ([]entity.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) CountByPlatform(_ context.Context) (map[entity.Platform]int64, error) {
	return nil, nil
}

func (f *fakePostRepo) CountByRelevance(_ context.Context) (map[entity.RelevantStatus]int64, error) {
	return nil, nil
}

func (f *fakePostRepo) EngagementTotals(_ context.Context, _ *time.Time) (*entity.EngagementTotals, error) {
	return &entity.EngagementTotals{}, nil
}

func TestCreatePost(t *testing.T) {
	repo := newFakePostRepo()
	svc := New(repo)

	in := CreateInput{
		Platform:       entity.PlatformDouyin,
		PlatformItemID: "item-1",
		Title:          "开业第一天",
		PostType:       entity.PostTypeVideo,
		LikeCount:      10,
		RelevantStatus: entity.RelevantStatusMaybe,
	}

	post, err := svc.CreatePost(context.Background(), in)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if repo.creates != 1 || repo.updates != 0 {
		t.Fatalf("creates=%d updates=%d", repo.creates, repo.updates)
	}

	t.Run("known item refreshes counters", func(t *testing.T) {
		in.LikeCount = 42
		in.Title = "开业第一天（更新）"

		refreshed, err := svc.CreatePost(context.Background(), in)
		if err != nil {
			t.Fatalf("CreatePost refresh: %v", err)
		}
		if refreshed.ID != post.ID {
			t.Fatalf("expected refresh of %s, got new post %s", post.ID, refreshed.ID)
		}
		if refreshed.LikeCount != 42 {
			t.Fatalf("like count = %d, want 42", refreshed.LikeCount)
		}
		if repo.creates != 1 || repo.updates != 1 {
			t.Fatalf("creates=%d updates=%d", repo.creates, repo.updates)
		}
	})

	t.Run("invalid platform", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), CreateInput{
			Platform:       entity.Platform("weibo"),
			PlatformItemID: "item-2",
		})
		if err != entity.ErrInvalidPlatform {
			t.Fatalf("err = %v, want ErrInvalidPlatform", err)
		}
	})

	t.Run("missing platform item ID", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), CreateInput{
			Platform: entity.PlatformDouyin,
		})
		if err != entity.ErrEmptyPlatformItemID {
			t.Fatalf("err = %v, want ErrEmptyPlatformItemID", err)
		}
	})
}
