package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/launchpad/internal/platform/timeouts"
)

const tracerName = "github.com/louisbranch/launchpad/internal/platform/apiclient"

// RequestHook edits an outgoing request before every attempt, for example to
// attach an auth token. A hook error fails the request without retrying.
type RequestHook func(*http.Request) error

// Config configures a Client.
type Config struct {
	// BaseURL is the absolute URL request paths are resolved against.
	BaseURL string
	// Timeout bounds each attempt. Defaults to timeouts.APIRequest.
	Timeout time.Duration
	// Header is sent with every request on top of the JSON defaults.
	Header http.Header
	// MaxRetries defaults to DefaultMaxRetries when zero.
	MaxRetries int
	// BaseDelay defaults to DefaultBaseDelay when zero.
	BaseDelay time.Duration
	// DisableRetry surfaces every failure after the first attempt.
	DisableRetry bool
	// Debug logs each request and response.
	Debug bool
	Hooks []RequestHook

	HTTPClient *http.Client
	Clock      clock.Clock
	Logger     *zerolog.Logger
	Metrics    *Metrics
	Tracer     trace.Tracer
}

// Client issues JSON requests with retry and error normalization.
// It is safe for concurrent use; configuration is read-only after New.
type Client struct {
	baseURL    *url.URL
	timeout    time.Duration
	header     http.Header
	maxRetries int
	baseDelay  time.Duration
	debug      bool
	hooks      []RequestHook
	httpClient *http.Client
	clock      clock.Clock
	logger     zerolog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Request describes one logical API call.
type Request struct {
	Method string
	// Path is resolved against the client base URL; absolute URLs are used as-is.
	Path  string
	Query url.Values
	// Body is encoded as JSON unless it is a []byte or json.RawMessage.
	Body   any
	Header http.Header
	// Timeout overrides the client timeout for each attempt of this request.
	Timeout time.Duration
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Retries counts the retries that preceded this response.
	Retries int
}

// Decode unmarshals the JSON body into target. Empty bodies leave target untouched.
func (r *Response) Decode(target any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 || target == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	for key, values := range cfg.Header {
		header.Del(key)
		for _, value := range values {
			header.Add(key, value)
		}
	}

	client := &Client{
		baseURL:    base,
		timeout:    cfg.Timeout,
		header:     header,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		debug:      cfg.Debug,
		hooks:      append([]RequestHook(nil), cfg.Hooks...),
		httpClient: cfg.HTTPClient,
		clock:      cfg.Clock,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
	}
	if client.timeout <= 0 {
		client.timeout = timeouts.APIRequest
	}
	if client.maxRetries <= 0 {
		client.maxRetries = DefaultMaxRetries
	}
	if cfg.DisableRetry {
		client.maxRetries = 0
	}
	if client.baseDelay <= 0 {
		client.baseDelay = DefaultBaseDelay
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.clock == nil {
		client.clock = clock.WallClock
	}
	if cfg.Logger != nil {
		client.logger = cfg.Logger.With().Str("component", "apiclient").Logger()
	} else {
		client.logger = zerolog.Nop()
	}
	if client.tracer == nil {
		client.tracer = otel.Tracer(tracerName)
	}
	return client, nil
}

// BaseURL returns the URL request paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// MaxRetries returns the retry limit for one logical request.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// preparedRequest is the immutable form of a Request replayed on every attempt.
type preparedRequest struct {
	method  string
	url     string
	body    []byte
	header  http.Header
	timeout time.Duration
}

func (c *Client) prepare(req Request) (*preparedRequest, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	header := c.header.Clone()
	for key, values := range req.Header {
		header.Del(key)
		for _, value := range values {
			header.Add(key, value)
		}
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	return &preparedRequest{
		method:  method,
		url:     target,
		body:    body,
		header:  header,
		timeout: timeout,
	}, nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("parse request path: %w", err)
	}
	var target *url.URL
	if ref.IsAbs() {
		target = ref
	} else {
		ref.Path = strings.TrimPrefix(ref.Path, "/")
		target = c.baseURL.ResolveReference(ref)
	}
	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		target.RawQuery = merged.Encode()
	}
	return target.String(), nil
}

func encodeBody(body any) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case json.RawMessage:
		return value, nil
	case string:
		return []byte(value), nil
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return encoded, nil
	}
}

// Do executes req, retrying transient failures. Every failure is returned as
// an *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	prepared, err := c.prepare(req)
	if err != nil {
		apiErr := unknownError(err)
		c.logFailure(strings.ToUpper(req.Method), req.Path, apiErr)
		c.metrics.observeFailure(strings.ToUpper(req.Method), apiErr.Kind)
		return nil, apiErr
	}

	ctx, span := c.tracer.Start(ctx, "apiclient "+prepared.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", prepared.method),
			attribute.String("url.full", prepared.url),
		),
	)
	defer span.End()

	resp, last, retries, callErr := c.run(ctx, prepared)
	if resp != nil {
		span.SetAttributes(
			attribute.Int("http.response.status_code", resp.StatusCode),
			attribute.Int("apiclient.retries", retries),
		)
		c.metrics.observeSuccess(prepared.method)
		return resp, nil
	}

	apiErr := c.normalize(last, retries, callErr)
	c.logFailure(prepared.method, prepared.url, apiErr)
	c.metrics.observeFailure(prepared.method, apiErr.Kind)
	span.RecordError(apiErr)
	span.SetStatus(codes.Error, apiErr.Message)
	if apiErr.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", apiErr.StatusCode))
	}
	span.SetAttributes(attribute.Int("apiclient.retries", retries))
	return nil, apiErr
}

// run drives the attempt loop. It returns the successful response, or the
// last failure together with the number of retries made.
func (c *Client) run(ctx context.Context, req *preparedRequest) (*Response, *failure, int, error) {
	var (
		resp    *Response
		last    *failure
		retries int
		started int
	)
	// retries counts attempts sent after the first, not waits begun.
	attempt := func() error {
		retries = started
		started++
		if retries > 0 {
			c.metrics.observeRetry(req.method)
		}
		r, f := c.attempt(ctx, req, retries)
		if f != nil {
			last = f
			return f
		}
		r.Retries = retries
		resp = r
		return nil
	}

	if c.maxRetries == 0 {
		_ = attempt()
		return resp, last, retries, nil
	}

	err := retry.Call(retry.CallArgs{
		Func: attempt,
		IsFatalError: func(err error) bool {
			var f *failure
			if !errors.As(err, &f) {
				return true
			}
			return !f.retryable() || ctx.Err() != nil
		},
		NotifyFunc: func(_ error, attempt int) {
			if attempt > c.maxRetries {
				return
			}
			c.logger.Warn().
				Str("url", req.url).
				Dur("delay", BackoffDelay(c.baseDelay, attempt)).
				Int("attempt", attempt).
				Msgf("Retrying request (attempt %d/%d)", attempt, c.maxRetries)
		},
		Attempts: c.maxRetries + 1,
		Delay:    c.baseDelay,
		BackoffFunc: func(_ time.Duration, attempt int) time.Duration {
			return BackoffDelay(c.baseDelay, attempt)
		},
		Clock: c.clock,
		Stop:  ctx.Done(),
	})
	if resp != nil {
		return resp, nil, retries, nil
	}
	return nil, last, retries, err
}

// attempt sends req once.
func (c *Client) attempt(ctx context.Context, req *preparedRequest, retries int) (*Response, *failure) {
	attemptCtx, cancel := context.WithTimeout(withRetryCount(ctx, retries), req.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.method, req.url, body)
	if err != nil {
		return nil, &failure{err: fmt.Errorf("build request: %w", err), local: true}
	}
	httpReq.Header = req.header.Clone()
	for _, hook := range c.hooks {
		if hook == nil {
			continue
		}
		if err := hook(httpReq); err != nil {
			return nil, &failure{err: fmt.Errorf("request hook: %w", err), local: true}
		}
	}
	otel.GetTextMapPropagator().Inject(attemptCtx, propagation.HeaderCarrier(httpReq.Header))

	if c.debug {
		c.logger.Debug().
			Str("method", req.method).
			Str("url", req.url).
			Int("retry", retries).
			Msg("API Request")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &failure{err: err}
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &failure{err: fmt.Errorf("read response body: %w", err)}
	}
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       payload,
	}
	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("url", req.url).
			Msg("API Response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &failure{response: resp}
	}
	return resp, nil
}

func (c *Client) normalize(last *failure, retries int, callErr error) *Error {
	switch {
	case last == nil:
		return unknownError(callErr)
	case last.response != nil:
		return responseError(last.response, retries)
	case last.local:
		return unknownError(last.err)
	default:
		return networkError(last.err, retries)
	}
}

// logFailure writes the terminal classification line for a failed request.
func (c *Client) logFailure(method, target string, apiErr *Error) {
	switch apiErr.Kind {
	case KindUnauthorized:
		c.logger.Warn().Str("url", target).Msg("Unauthorized request")
	case KindForbidden:
		c.logger.Warn().Str("url", target).Msg("Forbidden request")
	case KindNotFound:
		c.logger.Warn().Str("url", target).Msg("Resource not found")
	case KindValidation:
		c.logger.Warn().Str("url", target).Interface("data", apiErr.Data).Msg("Validation error")
	case KindRateLimited:
		c.logger.Warn().Str("url", target).Msg("Rate limit exceeded")
	case KindServer:
		c.logger.Error().Int("status", apiErr.StatusCode).Str("url", target).Msg("Server error")
	case KindAPI:
		c.logger.Error().Int("status", apiErr.StatusCode).Str("url", target).Interface("data", apiErr.Data).Msg("API error")
	case KindNetwork:
		c.logger.Error().Str("method", method).Str("url", target).Interface("message", apiErr.Data).Msg("Network error")
	default:
		c.logger.Error().Str("method", method).Str("url", target).Str("error", apiErr.Message).Msg("Unknown error")
	}
}
