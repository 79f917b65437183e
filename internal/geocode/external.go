package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/vyapar-labs/siterisk/internal/config"
	"github.com/vyapar-labs/siterisk/internal/model"
)

// ExternalResolver queries a remote geocoding HTTP API. It is optional: with
// no base URL configured it reports unavailable and the cascade skips it.
// Calls are rate limited and guarded by a circuit breaker so a flaky upstream
// cannot stall analysis requests.
type ExternalResolver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker
}

// NewExternalResolver builds the resolver from config. The timeout is a hard
// cap on each upstream call.
func NewExternalResolver(cfg config.ExternalGeocoderConfig, timeout time.Duration) *ExternalResolver {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &ExternalResolver{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		breaker:    newBreaker(cfg.FailureThreshold, time.Duration(cfg.ResetTimeoutSecs)*time.Second),
	}
}

func (r *ExternalResolver) Name() string { return "external" }

func (r *ExternalResolver) Available() bool { return r.baseURL != "" }

// externalResponse is the upstream API's answer shape.
type externalResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Area    string  `json:"area"`
	Matched bool    `json:"matched"`
}

// Resolve queries the upstream API. Failures count against the breaker; the
// cascade absorbs the returned error and moves on.
func (r *ExternalResolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	if !r.breaker.allow() {
		return nil, errBreakerOpen
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: external rate limit")
	}

	res, err := r.fetch(ctx, q)
	r.breaker.record(err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ExternalResolver) fetch(ctx context.Context, q Query) (*Result, error) {
	params := url.Values{}
	if q.Location != "" {
		params.Set("q", q.Location)
	}
	if q.Pincode != "" {
		params.Set("pincode", q.Pincode)
	}

	reqURL := r.baseURL + "/v1/geocode?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: external build request")
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: external request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: external returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: external read body")
	}

	var er externalResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, eris.Wrap(err, "geocode: external parse response")
	}

	if !er.Matched {
		return &Result{Source: "external"}, nil
	}
	return &Result{
		Coordinate: model.Coordinate{Lat: er.Lat, Lng: er.Lng},
		Area:       er.Area,
		Source:     "external",
		Matched:    true,
	}, nil
}
