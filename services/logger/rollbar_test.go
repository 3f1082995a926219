package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classdesk/core"
)

func TestRollbarLogger_Enable(t *testing.T) {
	var got []bool
	setRollbarEnabled = func(enabled bool) { got = append(got, enabled) }
	t.Cleanup(func() {
		setRollbarEnabled = rollbar.SetEnabled
		rollbar.SetEnabled(false)
	})

	tests := []struct {
		name     string
		conf     core.Config
		debug    bool
		expected bool
	}{
		{name: "token, not debug", conf: core.Config{RollbarToken: "tok"}, expected: true},
		{name: "token, debug", conf: core.Config{RollbarToken: "tok"}, debug: true, expected: false},
		{name: "no token", conf: core.Config{}, expected: false},
		{name: "test mode", conf: core.Config{RollbarToken: "tok", TestMode: true}, expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			l := NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), &tt.conf)
			l.Enable(!tt.debug)
			assert.Equal(t, []bool{false, tt.expected}, got)
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	setRollbarEnabled(false)
	buf := new(bytes.Buffer)
	l := NewRollbarLogger(log.New(buf, "", 0), &core.Config{})

	l.Warn("loading session", map[string]interface{}{"store": "file"})
	assert.Contains(t, buf.String(), "[WARN] loading session")
	assert.Contains(t, buf.String(), "map[store:file]")
}
