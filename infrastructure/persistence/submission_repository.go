package persistence

import (
	"context"
	"database/sql"

	"video-bot/domain/model"
)

// SubmissionRepository implements the append-only submission ledger on
// PostgreSQL. Ordering ties on created_at break by id, which follows
// insertion order.
type SubmissionRepository struct{ db *sql.DB }

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM submissions WHERE video_id=$1)`, videoID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SubmissionRepository) Insert(ctx context.Context, s *model.Submission) error {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO submissions (video_id, post_id, created_at, stickied) VALUES ($1,$2,$3,$4) RETURNING id`,
		s.VideoID, s.PostID, s.Timestamp, s.Stickied)
	return row.Scan(&s.ID)
}

func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SubmissionRepository) OldestStickied(ctx context.Context) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, video_id, post_id, created_at, stickied FROM submissions WHERE stickied ORDER BY created_at, id LIMIT 1`)
	return scanSubmission(row)
}

func (r *SubmissionRepository) LatestExcept(ctx context.Context, videoID string) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, video_id, post_id, created_at, stickied FROM submissions WHERE video_id <> $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		videoID)
	return scanSubmission(row)
}

func (r *SubmissionRepository) SetStickied(ctx context.Context, id int64, stickied bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE submissions SET stickied=$1 WHERE id=$2`, stickied, id)
	return err
}

func (r *SubmissionRepository) BulkInsert(ctx context.Context, submissions []*model.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	q := `INSERT INTO submissions (video_id, post_id, created_at, stickied) VALUES ($1,$2,$3,$4) ON CONFLICT (video_id) DO NOTHING`
	for _, s := range submissions {
		if _, err = tx.ExecContext(ctx, q, s.VideoID, s.PostID, s.Timestamp, s.Stickied); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanSubmission(row *sql.Row) (*model.Submission, error) {
	s := &model.Submission{}
	if err := row.Scan(&s.ID, &s.VideoID, &s.PostID, &s.Timestamp, &s.Stickied); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}
