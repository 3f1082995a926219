package gatewaysvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/session"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // defaults to http.DefaultTransport
	Sessions  *session.Manager
	Logger    core.Logger

	// tracing; the otel globals are used when unset
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// HTTPGateway is the single access point to the remote API.
type HTTPGateway struct {
	baseURL  string
	timeout  time.Duration
	client   *http.Client
	sessions *session.Manager
	logger   core.Logger
}

var _ core.Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(opts Options) (*HTTPGateway, error) {
	if opts.Sessions == nil {
		return nil, errors.New("gateway: a session manager is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("gateway: a logger is required")
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("gateway: timeout must be positive")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("gateway: invalid base url %q", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	otelOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if opts.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(opts.TracerProvider))
	}
	if opts.Propagator != nil {
		otelOpts = append(otelOpts, otelhttp.WithPropagators(opts.Propagator))
	}
	return &HTTPGateway{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport, otelOpts...),
			Timeout:   opts.Timeout,
		},
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}, nil
}

// Do sends `in` (when non-nil) as the JSON body of `method path` and decodes the success payload into `out`
// (when non-nil). Every failure is returned as a *core.APIError.
func (gw *HTTPGateway) Do(ctx context.Context, method, path string, in, out interface{}) error {
	req, err := gw.newRequest(ctx, method, path, in)
	if err != nil {
		return &core.APIError{Message: core.FallbackMessage, Err: err}
	}

	resp, err := gw.client.Do(req)
	if err != nil {
		return gw.transportError(req, err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gw.statusError(ctx, req, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gw.transportError(req, err)
	}
	if out == nil || isEmptyPayload(body) {
		return nil
	}
	if err = sonic.Unmarshal(body, out); err != nil {
		return &core.APIError{
			Status:  resp.StatusCode,
			Message: core.FallbackMessage,
			Err:     errors.Wrapf(err, "decoding %s %s", method, path),
		}
	}
	return nil
}

func (gw *HTTPGateway) newRequest(ctx context.Context, method, path string, in interface{}) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := sonic.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, gw.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if sess := gw.sessions.Current(ctx); sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

func (gw *HTTPGateway) statusError(ctx context.Context, req *http.Request, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &core.APIError{
		Status:  resp.StatusCode,
		Message: errorMessage(body),
		Err:     errors.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status),
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// every 401 evicts the session, whichever resource answered it
		if err := gw.sessions.Destroy(ctx); err != nil {
			gw.logger.Error("evicting session after 401", err)
		}
		apiErr.Err = errors.Wrap(core.ErrAuthExpired, apiErr.Err.Error())
	} else if resp.StatusCode >= 500 {
		gw.logger.Warn("api server error", apiErr.Err, map[string]interface{}{
			"request_id": req.Header.Get(HeaderRequestID),
			"message":    apiErr.Message,
		})
	}
	return apiErr
}

func (gw *HTTPGateway) transportError(req *http.Request, err error) error {
	if isTimeout(err) {
		return &core.APIError{
			Message: fmt.Sprintf("request timed out after %s", gw.timeout),
			Err:     errors.Wrap(core.ErrTimeout, err.Error()),
		}
	}
	gw.logger.Warn("api unreachable", err, map[string]interface{}{
		"request_id": req.Header.Get(HeaderRequestID),
	})
	return &core.APIError{Message: core.FallbackMessage, Err: err}
}

// errorMessage extracts the server's human-readable message from an error payload.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error"} {
			if res := gjson.GetBytes(body, key); res.Type == gjson.String && strings.TrimSpace(res.Str) != "" {
				return res.Str
			}
		}
	}
	return core.FallbackMessage
}

func isEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
