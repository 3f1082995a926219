package core

import (
	"context"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
)

// GatewayCall is one request seen by GatewayMock.
type GatewayCall struct {
	Method string
	Path   string
	Body   interface{}
}

// GatewayReply is the scripted answer to a request: an error, or a JSON payload.
type GatewayReply struct {
	Payload string
	Err     error
}

// GatewayMock answers requests from a table keyed by "METHOD /path".
// Unscripted requests fail with a 404 *APIError.
type GatewayMock struct {
	mu      sync.Mutex
	replies map[string]GatewayReply
	calls   []GatewayCall
}

var _ Gateway = (*GatewayMock)(nil)

func NewGatewayMock() *GatewayMock {
	return &GatewayMock{replies: make(map[string]GatewayReply)}
}

func (gw *GatewayMock) On(method, path string, reply GatewayReply) *GatewayMock {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.replies[method+" "+path] = reply
	return gw
}

func (gw *GatewayMock) Calls() []GatewayCall {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return append([]GatewayCall(nil), gw.calls...)
}

func (gw *GatewayMock) Do(_ context.Context, method, path string, in, out interface{}) error {
	gw.mu.Lock()
	gw.calls = append(gw.calls, GatewayCall{Method: method, Path: path, Body: in})
	reply, ok := gw.replies[method+" "+path]
	gw.mu.Unlock()

	if !ok {
		return &APIError{Status: http.StatusNotFound, Message: FallbackMessage}
	}
	if reply.Err != nil {
		return reply.Err
	}
	if out == nil || reply.Payload == "" || reply.Payload == "null" {
		return nil
	}
	return sonic.UnmarshalString(reply.Payload, out)
}
