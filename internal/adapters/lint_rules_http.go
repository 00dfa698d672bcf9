package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
)

const AllLintRulesURL = "https://raw.githubusercontent.com/dart-lang/linter/master/example/all.yaml"

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultHTTPRetries    = 3
	defaultHTTPRetryDelay = 200 * time.Millisecond
	maxHTTPRetryDelay     = 2 * time.Second
)

type httpRetryConfig struct {
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
}

func normalizeHTTPConfig(timeout time.Duration, retries int, delay time.Duration) httpRetryConfig {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if retries <= 0 {
		retries = defaultHTTPRetries
	}
	if delay <= 0 {
		delay = defaultHTTPRetryDelay
	}
	return httpRetryConfig{timeout: timeout, retries: retries, baseDelay: delay}
}

// LintRulesHTTPAdapter downloads the upstream list of every lint rule.
type LintRulesHTTPAdapter struct {
	URL        string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewLintRulesHTTPAdapter() LintRulesHTTPAdapter {
	return LintRulesHTTPAdapter{URL: AllLintRulesURL}
}

func (a LintRulesHTTPAdapter) FetchAllLintRules(ctx context.Context) ([]byte, error) {
	url := a.URL
	if url == "" {
		url = AllLintRulesURL
	}
	resp, err := doRequest(ctx, url, normalizeHTTPConfig(a.Timeout, a.Retries, a.RetryDelay))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download lint rules: %s", resp.Status))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read lint rules").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("url", url).Int("bytes", len(body)).Msg("downloaded lint rules")
	return body, nil
}

func doRequest(ctx context.Context, url string, cfg httpRetryConfig) (*http.Response, error) {
	client := &http.Client{Timeout: cfg.timeout}
	var lastErr error
	for attempt := 0; attempt < cfg.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(ctx.Err())
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() == nil && attempt < cfg.retries-1 {
				time.Sleep(httpRetryDelay(attempt, cfg))
				continue
			}
			break
		}
		if (resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests) && attempt < cfg.retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			time.Sleep(httpRetryDelay(attempt, cfg))
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request failed").
		WithCause(lastErr)
}

func httpRetryDelay(attempt int, cfg httpRetryConfig) time.Duration {
	delay := min(cfg.baseDelay*time.Duration(1<<attempt), maxHTTPRetryDelay)
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

var _ ports.LintRulesSourcePort = LintRulesHTTPAdapter{}
