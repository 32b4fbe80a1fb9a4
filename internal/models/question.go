package models

import "time"

// Question is one message on a question board. ParentID is nil for
// top-level questions; Children holds direct replies.
type Question struct {
	ID                string     `json:"id"`
	ParentID          *string    `json:"parent_id"`
	Content           string     `json:"content"`
	LikesCount        int        `json:"likes_count"`
	LikedByMe         bool       `json:"liked_by_me"`
	PinnedAt          *time.Time `json:"pinned_at"`
	CreatedAt         time.Time  `json:"created_at"`
	AuthorDisplayName *string    `json:"author_display_name"`
	Children          []Question `json:"children"`
}
