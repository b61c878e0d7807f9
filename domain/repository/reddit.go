package repository

import (
	"context"

	"video-bot/domain/model"
)

// IReddit talks to the Reddit REST API.
type IReddit interface {
	ExchangeCode(ctx context.Context, code string) (*model.OauthToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.OauthToken, error)
	// Submit creates a link submission and returns its identifiers. Submission
	// failures are not retried.
	Submit(ctx context.Context, accessToken, title, url string) (*model.SubmitData, error)
	// SetSticky pins or unpins the submission with the given fullname,
	// retrying server errors with linear backoff.
	SetSticky(ctx context.Context, accessToken, fullname string, state bool) error
	// UserSubmissions fetches one page of the account's submissions; pass the
	// previous page's After cursor to continue.
	UserSubmissions(ctx context.Context, after string) (*model.RedditListing, error)
}

// IHub performs the PubSubHubbub subscription handshake with the hub.
type IHub interface {
	Subscribe(ctx context.Context) error
}
