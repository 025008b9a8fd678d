package archon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"talentsync/internal/telemetry"
	"talentsync/internal/wow"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_build = "client.fetch-build"
	report_client_extract     = "client.extract-talent-code"
)

// Options are the run-level fetch parameters. They are plumbed through the
// constructor so concurrent runs (and tests) do not share state.
type Options struct {
	// BaseURL overrides the archon.gg builds root, mainly for tests.
	BaseURL string
	// MaxConcurrent bounds in-flight requests across the whole client.
	// Defaults to 5.
	MaxConcurrent int
	// Timeout is the per-request ceiling. Defaults to 3 minutes; build pages
	// for rare class/spec/encounter combinations can be very slow to render.
	Timeout time.Duration
}

// Client fetches archon.gg build pages and extracts the talent code published
// on each. A counting semaphore keeps at most MaxConcurrent requests in
// flight no matter how many goroutines call into it.
type Client struct {
	http *resty.Client
	urls URLBuilder
	sem  chan struct{}
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) *Client {
	tel = telemetry.NewScopedAPI("archon", tel)

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute * 3
	}

	urls := NewURLBuilder()
	if opts.BaseURL != "" {
		urls.BaseURL = opts.BaseURL
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	transport := &http.Transport{
		MaxConnsPerHost:     10,
		MaxIdleConnsPerHost: 10,
	}
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(transport)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	// always read the current reporting data, never a cached page
	httpClient.SetHeader("cache-control", "no-cache")
	httpClient.SetHeader("pragma", "no-cache")

	rateLimiter := rate.NewLimiter(rate.Limit(opts.MaxConcurrent), opts.MaxConcurrent)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http: httpClient,
		urls: urls,
		sem:  make(chan struct{}, opts.MaxConcurrent),
		tel:  tel,
	}
}

// FetchBuild requests one build page and returns the talent code on it.
// An empty code with a nil error means the site has no published build for
// this combination: both a missing talent link and HTTP 500 (the server's way
// of signaling insufficient statistics) land here. A non-nil error is a
// transport-level failure and is never retried by this method.
func (c *Client) FetchBuild(ctx context.Context, url string) (string, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	<-c.sem

	if err != nil {
		c.tel.ReportWarning(
			report_client_fetch_build,
			fmt.Errorf("fetch: %w", err),
			url,
		)
		return "", err
	}

	switch {
	case res.StatusCode() == http.StatusInternalServerError:
		// archon.gg answers 500 when it has too little data to build the page
		c.tel.ReportDebug(report_client_fetch_build, "no data (500)", url)
		return "", nil
	case res.StatusCode() != http.StatusOK:
		err := fmt.Errorf("unexpected status: %s", res.Status())
		c.tel.ReportWarning(report_client_fetch_build, err, url)
		return "", err
	}

	code, err := ExtractTalentCode(res.Body())
	if err != nil {
		c.tel.ReportBroken(
			report_client_extract,
			fmt.Errorf("parse build page: %w", err),
			url,
		)
		return "", err
	}
	return code, nil
}

// FetchRaidBuild fetches the published build for one raid encounter.
func (c *Client) FetchRaidBuild(ctx context.Context, class wow.Class, spec string, difficulty Difficulty, boss string) (string, error) {
	return c.FetchBuild(ctx, c.urls.RaidURL(class, spec, difficulty, boss))
}

// FetchDungeonBuild fetches the published mythic+ build for one dungeon,
// trying the primary reporting period for `now` first and falling back to the
// opposite period exactly once when the primary has no data. Transport errors
// propagate without a fallback attempt.
func (c *Client) FetchDungeonBuild(ctx context.Context, class wow.Class, spec string, dungeon string, now time.Time) (string, error) {
	primary := PrimaryTimespan(now)

	code, err := c.FetchBuild(ctx, c.urls.MythicPlusURL(class, spec, dungeon, primary))
	if err != nil || code != "" {
		return code, err
	}

	c.tel.ReportDebug(report_client_fetch_build, "trying fallback timespan", dungeon, string(primary.Opposite()))
	return c.FetchBuild(ctx, c.urls.MythicPlusURL(class, spec, dungeon, primary.Opposite()))
}
