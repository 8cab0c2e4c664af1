package entity

import (
	"time"
)

// Platform identifies the social platform a post was collected from
type Platform string

const (
	PlatformDouyin      Platform = "douyin"
	PlatformXiaohongshu Platform = "xiaohongshu"
)

// PostType represents the content format of a post
type PostType string

const (
	PostTypeVideo     PostType = "video"
	PostTypeImageText PostType = "image_text"
)

// CreatorType classifies the author of a post
type CreatorType string

const (
	CreatorTypeOfficial   CreatorType = "official"
	CreatorTypeInfluencer CreatorType = "influencer"
	CreatorTypeConsumer   CreatorType = "consumer"
)

// RelevantStatus is the coarse pre-screening brand-relevance signal
// produced before full AI analysis. Empty means "not screened yet".
type RelevantStatus string

const (
	RelevantStatusYes   RelevantStatus = "yes"
	RelevantStatusMaybe RelevantStatus = "maybe"
	RelevantStatusNo    RelevantStatus = "no"
)

// Priority represents the triage priority assigned to a post
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Post represents one monitored content item collected from a platform
type Post struct {
	ID             string         `json:"id"`
	Platform       Platform       `json:"platform"`
	PlatformItemID string         `json:"platform_item_id"`
	Title          string         `json:"title"`
	AuthorName     string         `json:"author_name"`
	AuthorID       string         `json:"author_id,omitempty"`
	CreatorType    CreatorType    `json:"creator_type,omitempty"`
	PostType       PostType       `json:"post_type"`
	CoverURL       string         `json:"cover_url,omitempty"`
	DurationSec    int            `json:"duration_sec,omitempty"`
	LikeCount      int64          `json:"like_count"`
	CommentCount   int64          `json:"comment_count"`
	ShareCount     int64          `json:"share_count"`
	CollectCount   int64          `json:"collect_count"`
	IsMarked       bool           `json:"is_marked"`
	RelevantStatus RelevantStatus `json:"relevant_status,omitempty"`
	Priority       Priority       `json:"priority,omitempty"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// PublishedOrCreated returns the publish timestamp, falling back to the
// collection timestamp when the platform did not report one.
func (p *Post) PublishedOrCreated() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// Validate validates the post fields
func (p *Post) Validate() error {
	if p.PlatformItemID == "" {
		return ErrEmptyPlatformItemID
	}
	if !IsValidPlatform(p.Platform) {
		return ErrInvalidPlatform
	}
	if p.PostType != "" && !IsValidPostType(p.PostType) {
		return ErrInvalidPostType
	}
	if p.RelevantStatus != "" && !IsValidRelevantStatus(p.RelevantStatus) {
		return ErrInvalidRelevantStatus
	}
	if p.Priority != "" && !IsValidPriority(p.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// IsValidPlatform checks if a platform is supported
func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformDouyin, PlatformXiaohongshu:
		return true
	}
	return false
}

// IsValidPostType checks if a post type is valid
func IsValidPostType(t PostType) bool {
	switch t {
	case PostTypeVideo, PostTypeImageText:
		return true
	}
	return false
}

// IsValidRelevantStatus checks if a pre-screening status is valid
func IsValidRelevantStatus(s RelevantStatus) bool {
	switch s {
	case RelevantStatusYes, RelevantStatusMaybe, RelevantStatusNo:
		return true
	}
	return false
}

// IsValidPriority checks if a priority is valid
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePlatform parses a string into a Platform
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !IsValidPlatform(p) {
		return "", ErrInvalidPlatform
	}
	return p, nil
}

// ParseRelevantStatus parses a string into a RelevantStatus
func ParseRelevantStatus(s string) (RelevantStatus, error) {
	st := RelevantStatus(s)
	if !IsValidRelevantStatus(st) {
		return "", ErrInvalidRelevantStatus
	}
	return st, nil
}
