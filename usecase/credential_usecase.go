package usecase

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"video-bot/domain/model"
	"video-bot/domain/repository"
	"video-bot/infrastructure/logger"
	"video-bot/infrastructure/utils"
)

// ErrNoToken is returned when no Reddit OAuth token has been persisted yet,
// i.e. the operator has not completed the authorization handshake.
var ErrNoToken = errors.New("reddit oauth token not found")

// ICredentialUsecase owns the Reddit OAuth token lifecycle: the initial
// authorization-code exchange, expiry tracking and refresh.
type ICredentialUsecase interface {
	ExchangeAuthorizationCode(ctx context.Context, code string) (*model.OauthToken, error)
	CurrentToken(ctx context.Context) (*model.OauthToken, error)
	IsExpired(ctx context.Context) (bool, error)
	Refresh(ctx context.Context) (*model.OauthToken, error)
	// FreshToken returns the current token, refreshing it first when expired.
	FreshToken(ctx context.Context) (*model.OauthToken, error)
}

type credentialUsecase struct {
	tokenRepo    repository.ICredential
	redditClient repository.IReddit
	// refreshMu serializes the check-expiry/refresh/persist critical section
	// so concurrent requests never issue two refreshes.
	refreshMu sync.Mutex
	now       func() time.Time
}

func NewCredentialUsecase(tokenRepo repository.ICredential, redditClient repository.IReddit) ICredentialUsecase {
	return &credentialUsecase{
		tokenRepo:    tokenRepo,
		redditClient: redditClient,
		now:          utils.GetCurrentTime,
	}
}

func (u *credentialUsecase) ExchangeAuthorizationCode(ctx context.Context, code string) (*model.OauthToken, error) {
	logger.GetLogger().Info("Getting Oauth token from Reddit redirect request")
	token, err := u.redditClient.ExchangeCode(ctx, code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to get Oauth token from Reddit")
		return nil, err
	}
	if err := u.saveToken(ctx, token); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("Successfully got Oauth token from Reddit")
	return token, nil
}

func (u *credentialUsecase) CurrentToken(ctx context.Context) (*model.OauthToken, error) {
	token, _, err := u.tokenRepo.GetToken(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	return token, nil
}

func (u *credentialUsecase) IsExpired(ctx context.Context) (bool, error) {
	_, expiresAt, err := u.tokenRepo.GetToken(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNoToken
		}
		return false, err
	}
	// A missing expiry record fails open; the API will answer 401 if the
	// token really is stale.
	if expiresAt == 0 {
		return false, nil
	}
	return u.now().Unix() >= expiresAt, nil
}

func (u *credentialUsecase) Refresh(ctx context.Context) (*model.OauthToken, error) {
	u.refreshMu.Lock()
	defer u.refreshMu.Unlock()
	return u.refreshLocked(ctx)
}

func (u *credentialUsecase) FreshToken(ctx context.Context) (*model.OauthToken, error) {
	u.refreshMu.Lock()
	defer u.refreshMu.Unlock()

	token, expiresAt, err := u.tokenRepo.GetToken(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	if expiresAt == 0 || u.now().Unix() < expiresAt {
		return token, nil
	}
	logger.GetLogger().Info("The Reddit OAuth token has expired")
	return u.refreshLocked(ctx)
}

func (u *credentialUsecase) refreshLocked(ctx context.Context) (*model.OauthToken, error) {
	current, _, err := u.tokenRepo.GetToken(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoToken
		}
		return nil, err
	}

	logger.GetLogger().Info("Refreshing the Reddit Oauth token")
	refreshed, err := u.redditClient.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to refresh the Reddit Oauth token")
		return nil, err
	}
	// Reddit may omit the refresh token on refresh responses; keep the one we
	// have so future refreshes still work.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}
	if err := u.saveToken(ctx, refreshed); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("Successfully got refreshed Reddit Oauth token")
	return refreshed, nil
}

func (u *credentialUsecase) saveToken(ctx context.Context, token *model.OauthToken) error {
	expiresAt := u.now().Unix() + int64(token.ExpiresIn)
	if err := u.tokenRepo.SaveToken(ctx, token, expiresAt); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to add the Reddit Oauth token to the database")
		return err
	}
	return nil
}
