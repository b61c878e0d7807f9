package model

// Submission is one row of the append-only submission ledger. Exactly one row
// may have Stickied=true once rotation has run at least once.
type Submission struct {
	ID        int64  `json:"id"`
	VideoID   string `json:"video_id"`
	PostID    string `json:"post_id"`
	Timestamp int64  `json:"timestamp"`
	Stickied  bool   `json:"stickied"`
}

// RotationResult reports which Reddit posts were touched by a rotation pass.
// Both fields are empty when rotation was a no-op.
type RotationResult struct {
	PreviousPinnedPostID string `json:"previous_pinned_post_id"`
	NewlyPinnedPostID    string `json:"newly_pinned_post_id"`
}
