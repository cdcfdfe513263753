package models

import "time"

// Tweet is the canonical, source-agnostic representation of one fetched post.
type Tweet struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"date"`
	Text      string    `json:"content"`
	Author    Author    `json:"user"`
	Metrics   Metrics   `json:"metrics"`
	Media     *Media    `json:"media,omitempty"`
}

// Author describes the posting account as seen on the platform.
type Author struct {
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	Verified       bool   `json:"verified"`
	FollowersCount int    `json:"followersCount"`
}

// Metrics holds the public engagement counters of a tweet.
// Views is 0 when the platform omits it.
type Metrics struct {
	Replies  int `json:"replies"`
	Retweets int `json:"retweets"`
	Likes    int `json:"likes"`
	Quotes   int `json:"quotes"`
	Views    int `json:"views"`
}

// Media carries the resolved media URLs of a tweet. Absent entirely when the
// tweet has no media; each video URL is the highest-bitrate variant offered.
type Media struct {
	PhotoURLs []string `json:"photos"`
	VideoURLs []string `json:"videos"`
}

// Sentiment is the lexicon-based polarity result for one piece of text.
type Sentiment struct {
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	PositiveHits int     `json:"positive_words"`
	NegativeHits int     `json:"negative_words"`
}

// Sentiment labels and the fixed thresholds that derive them.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"

	PositiveThreshold = 0.2
	NegativeThreshold = -0.2
)

// LabelForScore maps a polarity score to its label.
func LabelForScore(score float64) string {
	switch {
	case score > PositiveThreshold:
		return LabelPositive
	case score < NegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// ScoredTweet pairs a normalized tweet with its sentiment.
type ScoredTweet struct {
	Tweet
	Sentiment Sentiment `json:"sentiment"`
}

// OverallSentiment summarizes sentiment across one batch of tweets.
type OverallSentiment struct {
	Score        float64        `json:"score"`
	Label        string         `json:"label"`
	Distribution map[string]int `json:"distribution"`
}

// SearchResult is the payload of a sentiment-scored search request.
type SearchResult struct {
	Query            string           `json:"query"`
	Tweets           []ScoredTweet    `json:"tweets"`
	OverallSentiment OverallSentiment `json:"overall_sentiment"`
	Timestamp        time.Time        `json:"timestamp"`
}

// UserTweetsResult is the payload of a user-timeline request.
type UserTweetsResult struct {
	Username  string    `json:"username"`
	UserID    string    `json:"user_id"`
	Tweets    []Tweet   `json:"tweets"`
	Timestamp time.Time `json:"timestamp"`
}
