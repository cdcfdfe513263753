package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/tickerpulse/ticker-tweets-api/internal/models"
)

// Word lists are an intentionally crude heuristic tuned for stock-ticker chatter.
// Changing them changes observable scores, so treat them as frozen.
var positiveWords = []string{
	"bullish", "buy", "long", "up", "gain", "profit", "growth", "positive",
	"strong", "good", "great", "excellent", "amazing", "win", "winning",
	"outperform", "beat", "exceed", "success", "successful", "rally", "moon",
	"rocket", "soar", "surge", "jump", "rise", "rising", "higher", "breakout",
}

var negativeWords = []string{
	"bearish", "sell", "short", "down", "loss", "lose", "negative", "weak",
	"bad", "poor", "terrible", "awful", "fail", "failing", "underperform",
	"miss", "missed", "decline", "drop", "fall", "falling", "lower", "crash",
	"tank", "sink", "plunge", "plummet", "tumble", "collapse", "dump",
}

var (
	positivePatterns = compileWordPatterns(positiveWords)
	negativePatterns = compileWordPatterns(negativeWords)
)

func compileWordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, word := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return patterns
}

// Analyze scores one piece of text against the fixed lexicons. It is pure and
// deterministic: identical text always yields an identical result.
//
// A hit counts each lexicon entry present in the text at least once as a
// whole word, not the number of occurrences. The score is
// (positive-negative)/(positive+negative), 0 when nothing matched, rounded
// to two decimal places.
func Analyze(text string) models.Sentiment {
	text = strings.ToLower(text)

	positiveCount := 0
	for _, pattern := range positivePatterns {
		if pattern.MatchString(text) {
			positiveCount++
		}
	}

	negativeCount := 0
	for _, pattern := range negativePatterns {
		if pattern.MatchString(text) {
			negativeCount++
		}
	}

	score := 0.0
	if total := positiveCount + negativeCount; total > 0 {
		score = float64(positiveCount-negativeCount) / float64(total)
	}
	score = round2(score)

	return models.Sentiment{
		Score:        score,
		Label:        models.LabelForScore(score),
		PositiveHits: positiveCount,
		NegativeHits: negativeCount,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
