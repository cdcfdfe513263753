package scraper

import (
	"context"

	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
)

// PostSource is the capability interface over the external scraping engine.
// Implementations perform the actual network fetch using the credentials of
// the account handed to each call; they never touch pool bookkeeping.
type PostSource interface {
	// UserByLogin resolves a username to a platform user profile.
	UserByLogin(ctx context.Context, acct accounts.Account, username string) (*RawUser, error)

	// UserTweets fetches up to limit tweets from a user's timeline.
	UserTweets(ctx context.Context, acct accounts.Account, userID string, limit int) ([]RawTweet, error)

	// Search fetches up to limit tweets matching the query. product selects
	// the search tab (Top, Latest or Media).
	Search(ctx context.Context, acct accounts.Account, query string, limit int, product string) ([]RawTweet, error)
}

// RawUser is the upstream user-profile shape.
type RawUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayname"`
	Verified       bool   `json:"verified"`
	FollowersCount int    `json:"followersCount"`
}

// RawTweet is the upstream tweet shape. Optional fields are pointers so the
// normalizer can distinguish omitted from zero.
type RawTweet struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Date     string    `json:"date"`
	Content  string    `json:"rawContent"`
	User     RawUser   `json:"user"`
	Replies  *int      `json:"replyCount"`
	Retweets *int      `json:"retweetCount"`
	Likes    *int      `json:"likeCount"`
	Quotes   *int      `json:"quoteCount"`
	Views    *int      `json:"viewCount"`
	Media    *RawMedia `json:"media"`
}

// RawMedia carries the media attachments of a raw tweet.
type RawMedia struct {
	Photos []RawPhoto `json:"photos"`
	Videos []RawVideo `json:"videos"`
}

// RawPhoto is one photo attachment.
type RawPhoto struct {
	URL string `json:"url"`
}

// RawVideo is one video attachment with its available encodings.
type RawVideo struct {
	Variants []RawVideoVariant `json:"variants"`
}

// RawVideoVariant is one encoding of a video.
type RawVideoVariant struct {
	URL     string `json:"url"`
	Bitrate int    `json:"bitrate"`
}
