package normalize

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/models"
	"github.com/tickerpulse/ticker-tweets-api/internal/scraper"
)

// ErrMalformedPost marks a raw post missing its identity fields (tweet id or
// author username). Malformed posts are dropped, never fatal for a batch.
var ErrMalformedPost = errors.New("malformed post")

// Tweet maps one raw post onto the canonical tweet shape. Field mapping is
// deterministic: missing numeric metrics become 0 and a missing verified
// flag becomes false.
func Tweet(raw scraper.RawTweet) (models.Tweet, error) {
	if raw.ID == "" {
		return models.Tweet{}, fmt.Errorf("%w: missing tweet id", ErrMalformedPost)
	}
	if raw.User.Username == "" {
		return models.Tweet{}, fmt.Errorf("%w: tweet %s has no author username", ErrMalformedPost, raw.ID)
	}

	createdAt, err := parseDate(raw.Date)
	if err != nil {
		logrus.Debugf("Tweet %s has unparseable date %q: %v", raw.ID, raw.Date, err)
	}

	return models.Tweet{
		ID:        raw.ID,
		URL:       raw.URL,
		CreatedAt: createdAt,
		Text:      raw.Content,
		Author: models.Author{
			Username:       raw.User.Username,
			DisplayName:    raw.User.DisplayName,
			Verified:       raw.User.Verified,
			FollowersCount: raw.User.FollowersCount,
		},
		Metrics: models.Metrics{
			Replies:  intOrZero(raw.Replies),
			Retweets: intOrZero(raw.Retweets),
			Likes:    intOrZero(raw.Likes),
			Quotes:   intOrZero(raw.Quotes),
			Views:    intOrZero(raw.Views),
		},
		Media: media(raw.Media),
	}, nil
}

// Tweets normalizes a batch, skipping malformed posts so one bad post never
// aborts the rest.
func Tweets(raws []scraper.RawTweet) []models.Tweet {
	tweets := make([]models.Tweet, 0, len(raws))
	for _, raw := range raws {
		tweet, err := Tweet(raw)
		if err != nil {
			logrus.Warnf("Dropping malformed post: %v", err)
			continue
		}
		tweets = append(tweets, tweet)
	}
	return tweets
}

// media resolves the media attachments. No attachments means no media object
// at all; photos without videos (and vice versa) leave the other list empty.
func media(raw *scraper.RawMedia) *models.Media {
	if raw == nil || (len(raw.Photos) == 0 && len(raw.Videos) == 0) {
		return nil
	}

	resolved := &models.Media{
		PhotoURLs: make([]string, 0, len(raw.Photos)),
		VideoURLs: make([]string, 0, len(raw.Videos)),
	}
	for _, photo := range raw.Photos {
		resolved.PhotoURLs = append(resolved.PhotoURLs, photo.URL)
	}
	for _, video := range raw.Videos {
		if url := bestVariantURL(video); url != "" {
			resolved.VideoURLs = append(resolved.VideoURLs, url)
		}
	}
	return resolved
}

// bestVariantURL picks the highest-bitrate encoding; the first encountered
// wins ties.
func bestVariantURL(video scraper.RawVideo) string {
	best := ""
	bestBitrate := -1
	for _, variant := range video.Variants {
		if variant.Bitrate > bestBitrate {
			best = variant.URL
			bestBitrate = variant.Bitrate
		}
	}
	return best
}

func intOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
