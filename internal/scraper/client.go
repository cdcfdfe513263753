package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
)

// Client talks to the upstream scraper gateway over HTTP. The gateway owns
// the actual platform protocol; this client only attaches the selected
// account's credentials to each call and maps failures onto the error
// taxonomy.
type Client struct {
	baseURL string
	client  *resty.Client
}

// Ensure Client implements PostSource
var _ PostSource = (*Client)(nil)

// NewClient creates a gateway client. timeout bounds each request end to end
// and is tightened further by any deadline on the per-call context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "ticker-tweets-api/1.0"),
	}
}

type tweetsResponse struct {
	Tweets []RawTweet `json:"tweets"`
}

// UserByLogin resolves a username to a platform user profile.
func (c *Client) UserByLogin(ctx context.Context, acct accounts.Account, username string) (*RawUser, error) {
	endpoint := fmt.Sprintf("%s/user_by_login/%s", c.baseURL, url.PathEscape(username))

	body, err := c.get(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var user RawUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	if user.ID == "" {
		return nil, &FetchError{Kind: KindNotFound, Message: fmt.Sprintf("user %s not found", username)}
	}
	return &user, nil
}

// UserTweets fetches up to limit tweets from a user's timeline.
func (c *Client) UserTweets(ctx context.Context, acct accounts.Account, userID string, limit int) ([]RawTweet, error) {
	endpoint := fmt.Sprintf("%s/user_tweets/%s?limit=%d", c.baseURL, url.PathEscape(userID), limit)
	return c.getTweets(ctx, acct, endpoint)
}

// Search fetches up to limit tweets matching the query.
func (c *Client) Search(ctx context.Context, acct accounts.Account, query string, limit int, product string) ([]RawTweet, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d&product=%s",
		c.baseURL, url.QueryEscape(query), limit, url.QueryEscape(product))
	return c.getTweets(ctx, acct, endpoint)
}

func (c *Client) getTweets(ctx context.Context, acct accounts.Account, endpoint string) ([]RawTweet, error) {
	body, err := c.get(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed tweetsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tweets response: %w", err)
	}
	return parsed.Tweets, nil
}

func (c *Client) get(ctx context.Context, acct accounts.Account, endpoint string) ([]byte, error) {
	req := c.client.R().SetContext(ctx)

	if cookie := acct.Credentials.CookieHeader(); cookie != "" {
		req.SetHeader("Cookie", cookie)
	} else {
		req.SetHeader("X-Account-Username", acct.Username)
		req.SetHeader("X-Account-Password", acct.Credentials.Password)
	}

	logrus.Debugf("Gateway request (account %s): %s", acct.Username, endpoint)

	resp, err := req.Get(endpoint)
	if err != nil {
		// Transport-level failures: the gateway itself is unreachable unless
		// the context ran out first.
		if kind := Classify(err); kind == KindTransient {
			return nil, &FetchError{Kind: KindTransient, Message: err.Error()}
		}
		return nil, &FetchError{Kind: KindUpstream, Message: err.Error()}
	}

	if resp.StatusCode() != 200 {
		return nil, &FetchError{
			Kind:    kindForStatus(resp.StatusCode()),
			Status:  resp.StatusCode(),
			Message: string(resp.Body()),
		}
	}

	return resp.Body(), nil
}
