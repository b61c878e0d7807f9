// Package reddit implements the Reddit REST calls the bot needs: the OAuth
// token endpoint, link submission, sticky moderation and the submission
// listing used to seed the local ledger.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"video-bot/domain/model"
	"video-bot/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

var (
	ErrAuthFailed     = errors.New("reddit token endpoint rejected the request")
	ErrSubmitRejected = errors.New("reddit rejected the submission")
	ErrPinFailed      = errors.New("reddit sticky update failed")
	ErrListingFailed  = errors.New("failed to get submissions from reddit")
)

const (
	stickyMaxAttempts = 5
	stickyBaseDelay   = time.Second
)

// Config carries the endpoint URLs and credentials for one Reddit app and one
// subreddit.
type Config struct {
	AccessTokenURL     string
	SubmitURL          string
	StickyURL          string
	UserSubmissionsURL string
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	UserAgent          string
	Subreddit          string
	FlairID            string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	// baseDelay is scaled by the attempt number for sticky retries.
	baseDelay   time.Duration
	maxAttempts int
}

func NewRedditClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		cfg:         cfg,
		baseDelay:   stickyBaseDelay,
		maxAttempts: stickyMaxAttempts,
	}
}

type tokenForm struct {
	GrantType    string `url:"grant_type"`
	Code         string `url:"code,omitempty"`
	RedirectURI  string `url:"redirect_uri,omitempty"`
	RefreshToken string `url:"refresh_token,omitempty"`
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.OauthToken, error) {
	return c.requestToken(ctx, tokenForm{
		GrantType:   "authorization_code",
		Code:        code,
		RedirectURI: c.cfg.RedirectURL,
	})
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*model.OauthToken, error) {
	return c.requestToken(ctx, tokenForm{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
}

func (c *Client) requestToken(ctx context.Context, form tokenForm) (*model.OauthToken, error) {
	values, err := query.Values(form)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AccessTokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, response: %s", ErrAuthFailed, resp.StatusCode, body)
	}

	tok := &model.OauthToken{}
	if err := json.Unmarshal(body, tok); err != nil {
		return nil, fmt.Errorf("%w: decoding token response: %v", ErrAuthFailed, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token in response: %s", ErrAuthFailed, body)
	}
	return tok, nil
}

type submitForm struct {
	APIType     string `url:"api_type"`
	Extension   string `url:"extension"`
	FlairID     string `url:"flair_id"`
	Kind        string `url:"kind"`
	Resubmit    bool   `url:"resubmit"`
	SendReplies bool   `url:"sendreplies"`
	Subreddit   string `url:"sr"`
	Title       string `url:"title"`
	URL         string `url:"url"`
}

func (c *Client) Submit(ctx context.Context, accessToken, title, url string) (*model.SubmitData, error) {
	form := submitForm{
		APIType:     "json",
		Extension:   "json",
		FlairID:     c.cfg.FlairID,
		Kind:        "link",
		Resubmit:    true,
		SendReplies: false,
		Subreddit:   c.cfg.Subreddit,
		Title:       title,
		URL:         url,
	}
	values, err := query.Values(form)
	if err != nil {
		return nil, err
	}

	status, body, err := c.postForm(ctx, c.cfg.SubmitURL, accessToken, values.Encode())
	if err != nil {
		return nil, err
	}

	var submitResponse model.SubmitResponse
	if jsonErr := json.Unmarshal(body, &submitResponse); jsonErr != nil && status == http.StatusOK {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSubmitRejected, jsonErr)
	}
	if status != http.StatusOK || len(submitResponse.Details.Errors) != 0 {
		return nil, fmt.Errorf("%w: status %d, response: %s", ErrSubmitRejected, status, body)
	}
	return &submitResponse.Details.Data, nil
}

type stickyForm struct {
	APIType string `url:"api_type"`
	ID      string `url:"id"`
	State   bool   `url:"state"`
}

// SetSticky pins or unpins a submission. Server errors are retried with a
// linearly increasing delay; other failures are final.
func (c *Client) SetSticky(ctx context.Context, accessToken, fullname string, state bool) error {
	values, err := query.Values(stickyForm{APIType: "json", ID: fullname, State: state})
	if err != nil {
		return err
	}
	encoded := values.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		status, body, err := c.postForm(ctx, c.cfg.StickyURL, accessToken, encoded)
		if err != nil {
			return err
		}

		var stickyResponse model.SubmitResponse
		_ = json.Unmarshal(body, &stickyResponse)
		if status == http.StatusOK && len(stickyResponse.Details.Errors) == 0 {
			return nil
		}

		lastErr = fmt.Errorf("%w: status %d, response: %s", ErrPinFailed, status, body)
		if status < http.StatusInternalServerError {
			return lastErr
		}

		logger.GetLogger().WithField("attempt", attempt).Info("Got server error from Reddit sticky endpoint, retrying")
		select {
		case <-time.After(time.Duration(attempt) * c.baseDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (c *Client) UserSubmissions(ctx context.Context, after string) (*model.RedditListing, error) {
	url := c.cfg.UserSubmissionsURL
	if after != "" {
		url = fmt.Sprintf("%s?after=%s", url, after)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, response: %s", ErrListingFailed, resp.StatusCode, body)
	}

	listing := &model.RedditListing{}
	if err := json.Unmarshal(body, listing); err != nil {
		return nil, fmt.Errorf("%w: decoding listing: %v", ErrListingFailed, err)
	}
	return listing, nil
}

func (c *Client) postForm(ctx context.Context, url, accessToken, encoded string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(encoded))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
