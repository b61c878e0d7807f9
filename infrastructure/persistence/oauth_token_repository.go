package persistence

import (
	"context"
	"database/sql"
	"time"

	"video-bot/domain/model"
)

// OAuthTokenRepository persists the single Reddit OAuth token as one row
// keyed by id=1, matching the single-credential scope of the process.
type OAuthTokenRepository struct{ db *sql.DB }

func NewOAuthTokenRepository(db *sql.DB) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: db}
}

func (r *OAuthTokenRepository) SaveToken(ctx context.Context, t *model.OauthToken, expiresAt int64) error {
	q := `INSERT INTO reddit_auth (id, access_token, token_type, scope, refresh_token, expires_at, updated_at)
		  VALUES (1,$1,$2,$3,$4,$5,$6)
		  ON CONFLICT (id) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			token_type=EXCLUDED.token_type,
			scope=EXCLUDED.scope,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, t.AccessToken, t.TokenType, t.Scope, t.RefreshToken, expiresAt, time.Now().UTC())
	return err
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context) (*model.OauthToken, int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT access_token, token_type, scope, refresh_token, expires_at FROM reddit_auth WHERE id=1`)
	tok := &model.OauthToken{}
	var expiresAt int64
	if err := row.Scan(&tok.AccessToken, &tok.TokenType, &tok.Scope, &tok.RefreshToken, &expiresAt); err != nil {
		return nil, 0, err
	}
	return tok, expiresAt, nil
}
