package tests

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"

	"github.com/trezcool/classdesk/tests"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantMsg  string
}

func serve(t *testing.T, api *testutil.API, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("serve(): %v", err)
		}
		buf.Write(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.Server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	if err := sonic.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode(%s): %v", rec.Body.String(), err)
	}
}

func runHTTPTests(t *testing.T, api *testutil.API, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, api, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantMsg != "" {
				if msg := gjson.GetBytes(rec.Body.Bytes(), "message").String(); msg != tt.wantMsg {
					t.Errorf("failed! message = %q; wantMsg %q", msg, tt.wantMsg)
				}
			}
		})
	}
}
