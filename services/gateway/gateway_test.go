package gatewaysvc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/services/logger"
	"github.com/trezcool/classdesk/storage/session/inmem"
)

var sess = session.Session{
	User:  user.User{ID: "u1", Name: "Ada", Email: "ada@test.cd", Role: user.RoleTeacher},
	Token: "tok-1",
}

type recorded struct {
	method, path, auth, contentType, requestID, body string
}

func setup(t *testing.T, handler http.HandlerFunc, timeout ...time.Duration) (*HTTPGateway, *session.Manager, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tout := 10 * time.Second
	if len(timeout) > 0 {
		tout = timeout[0]
	}
	mgr := session.NewManager(inmemstore.NewStore(), logsvc.NewLoggerMock())
	gw, err := NewHTTPGateway(Options{
		BaseURL:  srv.URL + "/api/",
		Timeout:  tout,
		Sessions: mgr,
		Logger:   logsvc.NewLoggerMock(),
	})
	require.NoError(t, err)
	return gw, mgr, srv
}

func recorder(rec *recorded, status int, payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method:      r.Method,
			path:        r.URL.Path,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get(HeaderRequestID),
			body:        string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}
}

func TestNewHTTPGateway(t *testing.T) {
	mgr := session.NewManager(inmemstore.NewStore(), logsvc.NewLoggerMock())
	logger := logsvc.NewLoggerMock()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "ok", opts: Options{BaseURL: "http://localhost:5000/api", Timeout: time.Second, Sessions: mgr, Logger: logger}},
		{name: "no sessions", opts: Options{BaseURL: "http://localhost:5000/api", Timeout: time.Second, Logger: logger}, wantErr: true},
		{name: "no logger", opts: Options{BaseURL: "http://localhost:5000/api", Timeout: time.Second, Sessions: mgr}, wantErr: true},
		{name: "no timeout", opts: Options{BaseURL: "http://localhost:5000/api", Sessions: mgr, Logger: logger}, wantErr: true},
		{name: "relative url", opts: Options{BaseURL: "/api", Timeout: time.Second, Sessions: mgr, Logger: logger}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPGateway(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHTTPGateway() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPGateway_BearerToken(t *testing.T) {
	ctx := context.Background()
	var rec recorded
	gw, mgr, _ := setup(t, recorder(&rec, http.StatusOK, `[]`))

	require.NoError(t, gw.Do(ctx, http.MethodGet, "/assignments/published", nil, nil))
	assert.Empty(t, rec.auth, "no session, no header")

	require.NoError(t, mgr.Create(ctx, sess))
	require.NoError(t, gw.Do(ctx, http.MethodGet, "/assignments/published", nil, nil))
	assert.Equal(t, "Bearer tok-1", rec.auth)
	assert.Equal(t, "/api/assignments/published", rec.path)

	require.NoError(t, mgr.Destroy(ctx))
	require.NoError(t, gw.Do(ctx, http.MethodGet, "/assignments/published", nil, nil))
	assert.Empty(t, rec.auth, "header dropped once the session is gone")
}

func TestHTTPGateway_RequestShape(t *testing.T) {
	var rec recorded
	gw, _, _ := setup(t, recorder(&rec, http.StatusCreated, `{}`))

	in := map[string]string{"answer": "42"}
	require.NoError(t, gw.Do(context.Background(), http.MethodPost, "/submissions", in, nil))

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "application/json", rec.contentType)
	assert.JSONEq(t, `{"answer":"42"}`, rec.body)
	assert.NotEmpty(t, rec.requestID)
}

func TestHTTPGateway_SuccessPayload(t *testing.T) {
	type item struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	tests := []struct {
		name    string
		payload string
		want    []item
	}{
		{name: "list", payload: `[{"id":"a1","title":"Essay"},{"id":"a2","title":"Quiz"}]`, want: []item{{"a1", "Essay"}, {"a2", "Quiz"}}},
		{name: "empty list", payload: `[]`, want: []item{}},
		{name: "null", payload: `null`},
		{name: "no body", payload: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorded
			gw, _, _ := setup(t, recorder(&rec, http.StatusOK, tt.payload))

			var got []item
			require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/assignments/teacher", nil, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPGateway_DecodeFailure(t *testing.T) {
	var rec recorded
	gw, _, _ := setup(t, recorder(&rec, http.StatusOK, `{"id": 12`))

	var out map[string]interface{}
	err := gw.Do(context.Background(), http.MethodGet, "/assignments/teacher", nil, &out)
	require.Error(t, err)
	assert.Equal(t, core.FallbackMessage, err.Error())
}

func TestHTTPGateway_ErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		payload     string
		wantMessage string
	}{
		{name: "message", status: http.StatusBadRequest, payload: `{"message":"Invalid credentials"}`, wantMessage: "Invalid credentials"},
		{name: "error key", status: http.StatusForbidden, payload: `{"error":"forbidden"}`, wantMessage: "forbidden"},
		{name: "message wins", status: http.StatusConflict, payload: `{"message":"taken","error":"conflict"}`, wantMessage: "taken"},
		{name: "blank message", status: http.StatusBadRequest, payload: `{"message":"  "}`, wantMessage: core.FallbackMessage},
		{name: "non-string message", status: http.StatusBadRequest, payload: `{"message":{"code":1}}`, wantMessage: core.FallbackMessage},
		{name: "no message", status: http.StatusInternalServerError, payload: `{}`, wantMessage: core.FallbackMessage},
		{name: "not json", status: http.StatusBadGateway, payload: `<html>bad gateway</html>`, wantMessage: core.FallbackMessage},
		{name: "empty", status: http.StatusNotFound, payload: ``, wantMessage: core.FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorded
			gw, mgr, _ := setup(t, recorder(&rec, tt.status, tt.payload))
			require.NoError(t, mgr.Create(context.Background(), sess))

			out := map[string]interface{}{"untouched": true}
			err := gw.Do(context.Background(), http.MethodGet, "/assignments/teacher", nil, &out)
			require.Error(t, err)

			var apiErr *core.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, map[string]interface{}{"untouched": true}, out, "no partial data on failure")
			assert.False(t, core.IsAuthExpired(err))
			assert.NotNil(t, mgr.Current(context.Background()), "only 401 evicts the session")
		})
	}
}

func TestHTTPGateway_Unauthorized(t *testing.T) {
	paths := []string{"/auth/login", "/assignments/teacher", "/assignments/a1/status", "/submissions/me/a1"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			ctx := context.Background()
			var rec recorded
			gw, mgr, _ := setup(t, recorder(&rec, http.StatusUnauthorized, `{"message":"Token expired"}`))
			require.NoError(t, mgr.Create(ctx, sess))

			err := gw.Do(ctx, http.MethodGet, path, nil, nil)
			require.Error(t, err)
			assert.True(t, core.IsAuthExpired(err))
			assert.Equal(t, http.StatusUnauthorized, core.StatusCode(err))
			assert.Equal(t, "Token expired", err.Error())
			assert.Nil(t, mgr.Current(ctx), "session evicted")
		})
	}
}

func TestHTTPGateway_Timeout(t *testing.T) {
	ctx := context.Background()
	gw, mgr, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	require.NoError(t, mgr.Create(ctx, sess))

	err := gw.Do(ctx, http.MethodGet, "/assignments/teacher", nil, nil)
	require.Error(t, err)
	assert.True(t, core.IsTimeout(err))
	assert.False(t, core.IsAuthExpired(err))
	assert.Equal(t, "request timed out after 50ms", err.Error())
	assert.Equal(t, 0, core.StatusCode(err))
	assert.NotNil(t, mgr.Current(ctx), "timeouts leave the session alone")
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	ctx := context.Background()
	gw, mgr, srv := setup(t, recorder(&recorded{}, http.StatusOK, `{}`))
	require.NoError(t, mgr.Create(ctx, sess))
	srv.Close()

	err := gw.Do(ctx, http.MethodGet, "/assignments/teacher", nil, nil)
	require.Error(t, err)
	assert.Equal(t, core.FallbackMessage, err.Error())
	assert.Equal(t, 0, core.StatusCode(err))
	assert.False(t, core.IsTimeout(err))
	assert.NotNil(t, mgr.Current(ctx))
}

func TestHTTPGateway_NoRetry(t *testing.T) {
	var calls int
	gw, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.Error(t, gw.Do(context.Background(), http.MethodGet, "/assignments/teacher", nil, nil))
	assert.Equal(t, 1, calls)
}

func TestHTTPGateway_Tracing(t *testing.T) {
	ctx := context.Background()
	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	gw, err := NewHTTPGateway(Options{
		BaseURL:        srv.URL + "/api",
		Timeout:        time.Second,
		Sessions:       session.NewManager(inmemstore.NewStore(), logsvc.NewLoggerMock()),
		Logger:         logsvc.NewLoggerMock(),
		TracerProvider: tp,
		Propagator:     propagation.TraceContext{},
	})
	require.NoError(t, err)
	require.NoError(t, gw.Do(ctx, http.MethodGet, "/assignments/published", nil, nil))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /api/assignments/published", ended[0].Name())

	// the server sees the span's context
	require.NotEmpty(t, traceparent)
	assert.Contains(t, traceparent, ended[0].SpanContext().TraceID().String())
	assert.Contains(t, traceparent, ended[0].SpanContext().SpanID().String())
}
