// Package hub talks to the PubSubHubbub hub that delivers YouTube channel
// feed notifications.
package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrSubscribeFailed = errors.New("failed to subscribe to the channel topic")

// Config describes one channel subscription: where the hub lives, which topic
// to follow, where pushes are delivered and the shared HMAC secret.
type Config struct {
	URL         string
	Topic       string
	CallbackURL string
	Secret      string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewHubClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// Subscribe sends the subscription intent. The hub confirms asynchronously by
// calling back with a verification challenge.
func (c *Client) Subscribe(ctx context.Context) error {
	form := url.Values{}
	form.Set("hub.callback", c.cfg.CallbackURL)
	form.Set("hub.mode", "subscribe")
	form.Set("hub.topic", c.cfg.Topic)
	form.Set("hub.verify", "async")
	form.Set("hub.secret", c.cfg.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, response: %s", ErrSubscribeFailed, resp.StatusCode, body)
	}
	return nil
}
