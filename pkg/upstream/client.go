package upstream

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	"github.com/nexusmart/storefront-gateway/pkg/metrics"
)

const maxErrorBody = 64 << 10

var (
	errServiceRequired = errors.New("upstream service name is required")
	errBaseURLRequired = errors.New("upstream base URL is required")
	errLoggerRequired  = errors.New("upstream logger is required")
)

// Client is the shared HTTP machinery behind every collaborator service
// client. It owns auth headers, json codec, timeouts, call metrics, and
// the mapping from transport outcomes to domain errors.
type Client struct {
	http    *http.Client
	service string
	baseURL string
	timeout time.Duration
	logger  *logger.Logger
	metrics *metrics.UpstreamMetrics
}

// Request describes one call to a collaborator service.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Token     string
	Body      any
	// Out receives the decoded response body; nil discards it without
	// reading, which keeps optimistic-update call sites honest.
	Out any
}

// StatusError carries the upstream HTTP status and the service's own
// message for a non-2xx response. Callers reach it through errors.As to
// surface the collaborator's wording instead of a generic one.
type StatusError struct {
	Service    string
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Service, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Service, e.Operation, e.StatusCode)
}

// StatusErrorFrom unwraps the chain looking for the upstream status error.
func StatusErrorFrom(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// New builds a collaborator service client. All outbound requests go
// through an otel-instrumented transport and carry a deadline of timeout.
func New(service, baseURL string, timeout time.Duration, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	service = strings.TrimSpace(service)
	if service == "" {
		return nil, errServiceRequired
	}
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		service: service,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logg,
		metrics: m,
	}, nil
}

// Service reports the client's service name.
func (c *Client) Service() string {
	if c == nil {
		return ""
	}
	return c.service
}

// Do executes one call and decodes the response into req.Out when set.
// Transport failures, non-2xx statuses, and malformed bodies all come
// back as typed fetch errors; the previous state of whatever the caller
// caches is theirs to keep.
func (c *Client) Do(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s %s: encoding request", c.service, req.Operation))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s %s: building request", c.service, req.Operation))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	ctx = c.logger.WithUpstream(ctx, c.service)
	ctx = c.logger.WithField(ctx, "operation", req.Operation)

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	c.observe(req.Operation, time.Since(started))
	if err != nil {
		c.metricFailure(req.Operation)
		c.logger.Error(ctx, "upstream request failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, fmt.Sprintf("%s %s: request failed", c.service, req.Operation))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metricFailure(req.Operation)
		statusErr := &StatusError{
			Service:    c.service,
			Operation:  req.Operation,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.Body),
		}
		c.logger.Warn(c.logger.WithField(ctx, "status", resp.StatusCode), "upstream returned error status")
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), statusErr, fmt.Sprintf("%s %s failed", c.service, req.Operation)).
			WithDetails(map[string]any{"status": resp.StatusCode, "upstream_message": statusErr.Message})
	}

	if req.Out != nil {
		if err := json.NewDecoder(resp.Body).Decode(req.Out); err != nil {
			c.metricFailure(req.Operation)
			c.logger.Error(ctx, "upstream response malformed", err)
			return pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, fmt.Sprintf("%s %s: malformed response", c.service, req.Operation))
		}
	}

	c.metricSuccess(req.Operation)
	return nil
}

// Ping reports whether the service answers at all. Any HTTP response
// counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%s ping: %w", c.service, err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", c.service, err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) observe(operation string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveDuration(c.service, operation, elapsed)
	}
}

func (c *Client) metricSuccess(operation string) {
	if c.metrics != nil {
		c.metrics.IncSuccess(c.service, operation)
	}
}

func (c *Client) metricFailure(operation string) {
	if c.metrics != nil {
		c.metrics.IncFailure(c.service, operation)
	}
}

// extractMessage pulls the human message out of an error body. The
// collaborator services answer either {message, data, status, timestamp}
// or {error: {code, message}}; anything else is ignored.
func extractMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Error != nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return messageString(payload.Message)
}

// messageString tolerates both a plain string and a list of strings,
// which the user service returns for registration validation failures.
func messageString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, ". ")
	}
	return ""
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeFetchFailed
	}
}
