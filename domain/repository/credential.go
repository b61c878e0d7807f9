package repository

import (
	"context"

	"video-bot/domain/model"
)

// ICredential persists the single Reddit OAuth token and its absolute expiry.
type ICredential interface {
	// GetToken returns the persisted token and its expiry as a unix timestamp.
	// A zero expiry means no expiry was recorded.
	GetToken(ctx context.Context) (*model.OauthToken, int64, error)
	// SaveToken atomically replaces the persisted token. The write is durable
	// before the call returns.
	SaveToken(ctx context.Context, token *model.OauthToken, expiresAt int64) error
}
