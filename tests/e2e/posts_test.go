package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type CreatePostRequest struct {
	Platform       string `json:"platform"`
	PlatformItemID string `json:"platform_item_id"`
	Title          string `json:"title"`
	AuthorName     string `json:"author_name"`
	CreatorType    string `json:"creator_type,omitempty"`
	PostType       string `json:"post_type"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
	RelevantStatus string `json:"relevant_status,omitempty"`
}

type Post struct {
	ID             string `json:"id"`
	Platform       string `json:"platform"`
	PlatformItemID string `json:"platform_item_id"`
	Title          string `json:"title"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
	IsMarked       bool   `json:"is_marked"`
	RelevantStatus string `json:"relevant_status"`
}

// Helper function to register a collected post
func createTestPost(t *testing.T, itemID string, likes int64) Post {
	t.Helper()

	body, _ := json.Marshal(CreatePostRequest{
		Platform:       "douyin",
		PlatformItemID: itemID,
		Title:          "e2e test post",
		AuthorName:     "e2e author",
		PostType:       "video",
		LikeCount:      likes,
		RelevantStatus: "maybe",
	})

	resp, err := http.Post(baseURL+"/posts", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("Failed to decode post: %v", err)
	}
	return post
}

func TestPostCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	itemID := fmt.Sprintf("e2e-item-%d", time.Now().UnixNano())

	t.Run("register new post", func(t *testing.T) {
		post := createTestPost(t, itemID, 10)
		if post.ID == "" {
			t.Error("Expected a generated post ID")
		}
		if post.PlatformItemID != itemID {
			t.Errorf("Expected platform item %q, got %q", itemID, post.PlatformItemID)
		}
		if post.LikeCount != 10 {
			t.Errorf("Expected 10 likes, got %d", post.LikeCount)
		}
	})

	t.Run("same item refreshes counters", func(t *testing.T) {
		first := createTestPost(t, itemID, 10)
		second := createTestPost(t, itemID, 25)

		if second.ID != first.ID {
			t.Errorf("Expected refresh of %s, got new post %s", first.ID, second.ID)
		}
		if second.LikeCount != 25 {
			t.Errorf("Expected refreshed like count 25, got %d", second.LikeCount)
		}
	})

	t.Run("invalid platform", func(t *testing.T) {
		body, _ := json.Marshal(CreatePostRequest{
			Platform:       "weibo",
			PlatformItemID: "e2e-bad-platform",
			PostType:       "video",
		})

		resp, err := http.Post(baseURL+"/posts", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})

	t.Run("missing platform item ID", func(t *testing.T) {
		body, _ := json.Marshal(CreatePostRequest{
			Platform: "douyin",
			PostType: "video",
		})

		resp, err := http.Post(baseURL+"/posts", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})
}

func TestPostMarkAfterCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	itemID := fmt.Sprintf("e2e-mark-%d", time.Now().UnixNano())
	post := createTestPost(t, itemID, 1)

	body, _ := json.Marshal(map[string]bool{"marked": true})
	resp, err := http.Post(baseURL+"/posts/"+post.ID+"/mark", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to mark post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var marked Post
	if err := json.NewDecoder(resp.Body).Decode(&marked); err != nil {
		t.Fatalf("Failed to decode post: %v", err)
	}
	if !marked.IsMarked {
		t.Error("Expected post to be marked")
	}
}
