package repository

import (
	"context"

	"video-bot/domain/model"
)

// ISubmission is the append-only ledger of videos posted to Reddit.
// Queries that select a single row return (nil, nil) when no row matches.
type ISubmission interface {
	Exists(ctx context.Context, videoID string) (bool, error)
	Insert(ctx context.Context, submission *model.Submission) error
	Count(ctx context.Context) (int64, error)
	// OldestStickied returns the stickied row with the smallest timestamp,
	// breaking ties by insertion order.
	OldestStickied(ctx context.Context) (*model.Submission, error)
	// LatestExcept returns the most recently created row whose video id is not
	// the given one, i.e. the previous newest submission.
	LatestExcept(ctx context.Context, videoID string) (*model.Submission, error)
	SetStickied(ctx context.Context, id int64, stickied bool) error
	// BulkInsert seeds the ledger from pre-existing Reddit submissions.
	BulkInsert(ctx context.Context, submissions []*model.Submission) error
}
