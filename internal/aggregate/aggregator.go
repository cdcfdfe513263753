package aggregate

import (
	"math"
	"time"

	"github.com/tickerpulse/ticker-tweets-api/internal/models"
)

// Result rolls a sequence of scored tweets up into the response payload.
// Input order is preserved and nothing is deduplicated; the overall score is
// the arithmetic mean of per-tweet scores rounded to two decimal places, or
// 0 when the batch is empty.
func Result(query string, scored []models.ScoredTweet) models.SearchResult {
	distribution := map[string]int{
		models.LabelPositive: 0,
		models.LabelNeutral:  0,
		models.LabelNegative: 0,
	}

	total := 0.0
	for _, tweet := range scored {
		total += tweet.Sentiment.Score
		distribution[tweet.Sentiment.Label]++
	}

	score := 0.0
	if len(scored) > 0 {
		score = math.Round(total/float64(len(scored))*100) / 100
	}

	return models.SearchResult{
		Query:  query,
		Tweets: scored,
		OverallSentiment: models.OverallSentiment{
			Score:        score,
			Label:        models.LabelForScore(score),
			Distribution: distribution,
		},
		Timestamp: time.Now(),
	}
}
