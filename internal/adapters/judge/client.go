// Package judge fetches contest data from the VJudge rank endpoint.
package judge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/okian/contestboard/internal/domain/model"
	"github.com/okian/contestboard/pkg/logger"
	"github.com/okian/contestboard/pkg/metrics"
)

// Client defaults.
const (
	DefaultBaseURL   = "https://vjudge.net"
	defaultTimeout   = 15 * time.Second
	defaultRate      = 2
	defaultBurst     = 4
	maxResponseBytes = 64 << 20
	rankPathTemplate = "/contest/rank/single/%s"
)

// Fetcher retrieves raw contest data by id.
type Fetcher interface {
	Fetch(ctx context.Context, contestID string) (model.ContestRaw, error)
}

// Client is a throttled Fetcher. Concurrent fetches of the same contest
// share one upstream request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
	group      singleflight.Group
	logger     logger.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client for the public judge unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
		userAgent:  "contestboard/1.0",
		logger:     logger.Get().Named("judge"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// ContestURL is the human facing page of a contest.
func ContestURL(contestID string) string {
	return DefaultBaseURL + "/contest/" + url.PathEscape(contestID)
}

// Fetch retrieves one contest. Every failure is returned as *FetchError.
func (c *Client) Fetch(ctx context.Context, contestID string) (model.ContestRaw, error) {
	ch := c.group.DoChan(contestID, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), contestID)
	})
	select {
	case <-ctx.Done():
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNetwork, Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			metrics.RecordFetchShared()
		}
		if res.Err != nil {
			return model.ContestRaw{}, res.Err
		}
		return res.Val.(model.ContestRaw), nil
	}
}

func (c *Client) fetch(ctx context.Context, contestID string) (raw model.ContestRaw, err error) {
	start := time.Now()
	defer func() {
		latency := float64(time.Since(start).Milliseconds())
		metrics.RecordFetch(outcome(err), latency)
		if err != nil {
			metrics.RecordErrorByComponent("judge", outcome(err))
		}
	}()

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNetwork, Err: err}
	}
	metrics.RecordThrottleWait(float64(time.Since(waitStart).Milliseconds()))

	endpoint := c.baseURL + fmt.Sprintf(rankPathTemplate, url.PathEscape(contestID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "contest fetch failed", logger.String("contest_id", contestID), logger.Error(err))
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn(ctx, "could not fetch rank for contest",
			logger.String("contest_id", contestID),
			logger.Int("status", resp.StatusCode),
		)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNotFound, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.ContestRaw{}, &FetchError{ContestID: contestID, Kind: ErrNetwork, Err: err}
	}

	raw, err = Decode(contestID, body)
	if err != nil {
		c.logger.Warn(ctx, "contest payload is not a JSON object", logger.String("contest_id", contestID))
		return model.ContestRaw{}, err
	}
	c.logger.Debug(ctx, "contest fetched",
		logger.String("contest_id", contestID),
		logger.Int("participants", len(raw.Participants)),
		logger.Int("submissions", len(raw.Submissions)),
		logger.Duration("took", time.Since(start)),
	)
	return raw, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrDecode):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeNetwork
	}
}
