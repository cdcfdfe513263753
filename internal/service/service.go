package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/aggregate"
	"github.com/tickerpulse/ticker-tweets-api/internal/models"
	"github.com/tickerpulse/ticker-tweets-api/internal/normalize"
	"github.com/tickerpulse/ticker-tweets-api/internal/scraper"
	"github.com/tickerpulse/ticker-tweets-api/internal/sentiment"
)

// Service drives one request through the pipeline: select an account, fetch
// through the post source, record the outcome on the pool, then normalize,
// score and aggregate the results.
type Service struct {
	pool         *accounts.Pool
	source       scraper.PostSource
	fetchTimeout time.Duration
}

// New creates the orchestration service. fetchTimeout bounds every upstream
// fetch; on expiry the fetch fails as transient.
func New(pool *accounts.Pool, source scraper.PostSource, fetchTimeout time.Duration) *Service {
	return &Service{
		pool:         pool,
		source:       source,
		fetchTimeout: fetchTimeout,
	}
}

// Search fetches tweets matching query, scores each for sentiment and
// returns the aggregated result.
func (s *Service) Search(ctx context.Context, query string, limit int, product string) (*models.SearchResult, error) {
	var raws []scraper.RawTweet
	err := s.fetch(ctx, func(ctx context.Context, acct accounts.Account) error {
		var fetchErr error
		raws, fetchErr = s.source.Search(ctx, acct, query, limit, product)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	tweets := normalize.Tweets(raws)
	if len(raws) > 0 && len(tweets) == 0 {
		logrus.Warnf("All %d fetched posts for query %q were malformed", len(raws), query)
	}

	scored := make([]models.ScoredTweet, 0, len(tweets))
	for _, tweet := range tweets {
		scored = append(scored, models.ScoredTweet{
			Tweet:     tweet,
			Sentiment: sentiment.Analyze(tweet.Text),
		})
	}

	result := aggregate.Result(query, scored)
	return &result, nil
}

// UserTweets resolves username to a user id and fetches that user's
// timeline. Resolution and timeline fetch run on the same selected account.
func (s *Service) UserTweets(ctx context.Context, username string, limit int) (*models.UserTweetsResult, error) {
	var (
		user *scraper.RawUser
		raws []scraper.RawTweet
	)
	err := s.fetch(ctx, func(ctx context.Context, acct accounts.Account) error {
		var fetchErr error
		user, fetchErr = s.source.UserByLogin(ctx, acct, username)
		if fetchErr != nil {
			return fetchErr
		}
		raws, fetchErr = s.source.UserTweets(ctx, acct, user.ID, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	tweets := normalize.Tweets(raws)
	if len(raws) > 0 && len(tweets) == 0 {
		logrus.Warnf("All %d fetched posts for user %s were malformed", len(raws), username)
	}

	return &models.UserTweetsResult{
		Username:  username,
		UserID:    user.ID,
		Tweets:    tweets,
		Timestamp: time.Now(),
	}, nil
}

// fetch runs fn with a selected account under the fetch timeout and records
// the outcome on the pool. A transient failure is retried once against a
// different eligible account before the request fails; authentication
// failures and upstream outages are not retried.
func (s *Service) fetch(ctx context.Context, fn func(ctx context.Context, acct accounts.Account) error) error {
	acct, err := s.pool.Select()
	if err != nil {
		return err
	}

	fetchErr := s.fetchWith(ctx, acct, fn)
	if fetchErr == nil {
		return nil
	}

	if scraper.Classify(fetchErr) != scraper.KindTransient {
		return fetchErr
	}

	retry, err := s.pool.Select()
	if err != nil || retry.Username == acct.Username {
		// Nobody else to try.
		return fetchErr
	}

	logrus.Infof("Retrying fetch with account %s after transient failure on %s", retry.Username, acct.Username)
	return s.fetchWith(ctx, retry, fn)
}

// fetchWith executes one fetch attempt on acct and reports its outcome.
// A fetch aborted by the caller still gets its failure recorded, so the
// account's bookkeeping never leaks.
func (s *Service) fetchWith(ctx context.Context, acct accounts.Account, fn func(ctx context.Context, acct accounts.Account) error) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	err := fn(fetchCtx, acct)
	if err == nil {
		s.reportSuccess(acct.Username)
		return nil
	}

	// A resolved-but-missing user is a successful use of the account: the
	// credentials worked, the platform just has no such user.
	var fe *scraper.FetchError
	if errors.As(err, &fe) && fe.Kind == scraper.KindNotFound {
		s.reportSuccess(acct.Username)
		return err
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.As(err, &fe) {
		// Caller abort surfaces as a bare context error; book it as transient.
		err = &scraper.FetchError{Kind: scraper.KindTransient, Message: ctxErr.Error()}
	}

	if reportErr := s.pool.ReportFailure(acct.Username, err); reportErr != nil {
		logrus.Errorf("Failed to record fetch failure on account %s: %v", acct.Username, reportErr)
	}
	return err
}

func (s *Service) reportSuccess(username string) {
	if err := s.pool.ReportSuccess(username); err != nil {
		logrus.Errorf("Failed to record fetch success on account %s: %v", username, err)
	}
}

// RegisterAccount adds a new account to the pool, normalizing the cookie
// blob first when one is supplied.
func (s *Service) RegisterAccount(username, password, email, emailPassword, cookieBlob string) error {
	creds := accounts.Credentials{
		Password:      password,
		Email:         email,
		EmailPassword: emailPassword,
	}
	if cookieBlob != "" {
		cookies, err := accounts.ParseCookies(cookieBlob)
		if err != nil {
			return fmt.Errorf("invalid cookie blob for %s: %w", username, err)
		}
		creds.Cookies = cookies
	}

	return s.pool.Register(accounts.Account{
		Username:    username,
		Credentials: creds,
	})
}
