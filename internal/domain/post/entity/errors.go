package entity

import "errors"

// Domain errors for posts
var (
	// Validation errors
	ErrEmptyPlatformItemID   = errors.New("platform item ID is required")
	ErrInvalidPlatform       = errors.New("invalid platform")
	ErrInvalidPostType       = errors.New("invalid post type")
	ErrInvalidRelevantStatus = errors.New("invalid relevant status")
	ErrInvalidPriority       = errors.New("invalid priority")

	// Business logic errors
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicatePost = errors.New("post with this platform item ID already exists")
)
