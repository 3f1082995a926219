package assignment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classdesk/core"
)

const (
	draftJSON      = `{"_id":"a1","title":"Essay","description":"","dueDate":"2024-05-01","status":"DRAFT"}`
	publishedJSON  = `{"_id":"a1","title":"Essay","description":"","dueDate":"2024-05-01","status":"PUBLISHED"}`
	submissionJSON = `{"_id":"s1","assignmentId":"a1","studentId":"u2","answer":"42","submittedDate":"2024-05-02T10:00:00Z"}`
)

func setup() (*Service, *core.GatewayMock) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	gw := core.NewGatewayMock()
	return NewService(gw, validate, translator), gw
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	svc, gw := setup()
	gw.On(http.MethodGet, "/assignments/teacher", core.GatewayReply{Payload: "[" + draftJSON + "]"}).
		On(http.MethodGet, "/assignments/published", core.GatewayReply{Payload: `[]`})

	mine, err := svc.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a1", mine[0].ID)
	assert.Equal(t, StatusDraft, mine[0].Status)

	published, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.NotNil(t, published)
	assert.Empty(t, published)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, gw := setup()
		gw.On(http.MethodPost, "/assignments", core.GatewayReply{Payload: draftJSON})

		a, err := svc.Create(ctx, Fields{Title: " Essay ", DueDate: NewDate(2024, time.May, 1)})
		require.NoError(t, err)
		assert.Equal(t, "a1", a.ID)

		calls := gw.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, Fields{Title: "Essay", DueDate: NewDate(2024, time.May, 1)}, calls[0].Body)
	})

	t.Run("invalid", func(t *testing.T) {
		svc, gw := setup()

		_, err := svc.Create(ctx, Fields{Title: "  "})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []core.FieldError{
			{Field: "title", Error: "title is required"},
			{Field: "dueDate", Error: "dueDate is required"},
		}, vErr.Fields)
		assert.Empty(t, gw.Calls())
	})
}

func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, gw := setup()
	gw.On(http.MethodPut, "/assignments/a1", core.GatewayReply{Payload: draftJSON}).
		On(http.MethodDelete, "/assignments/a1", core.GatewayReply{})

	_, err := svc.Update(ctx, "a1", Fields{Title: "Essay", DueDate: NewDate(2024, time.May, 1)})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "a1"))

	var vErr *core.ValidationError
	assert.ErrorAs(t, svc.Delete(ctx, " "), &vErr, "empty id")
	assert.Len(t, gw.Calls(), 2)
}

func TestService_PathEscaping(t *testing.T) {
	svc, gw := setup()

	_ = svc.Delete(context.Background(), "a/1?x")
	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/assignments/a%2F1%3Fx", calls[0].Path)
}

func TestService_SetStatus(t *testing.T) {
	ctx := context.Background()
	draft := Assignment{ID: "a1", Status: StatusDraft}
	published := Assignment{ID: "a1", Status: StatusPublished}
	completed := Assignment{ID: "a1", Status: StatusCompleted}

	tests := []struct {
		name    string
		current Assignment
		to      Status
		wantErr error
	}{
		{name: "publish", current: draft, to: StatusPublished},
		{name: "close", current: published, to: StatusCompleted},
		{name: "skip", current: draft, to: StatusCompleted, wantErr: ErrInvalidTransition},
		{name: "reverse", current: published, to: StatusDraft, wantErr: ErrInvalidTransition},
		{name: "reopen", current: completed, to: StatusPublished, wantErr: ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw := setup()
			gw.On(http.MethodPut, "/assignments/a1/status", core.GatewayReply{Payload: publishedJSON})

			_, err := svc.SetStatus(ctx, tt.current, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, gw.Calls(), "refused transitions never reach the API")
				return
			}
			require.NoError(t, err)
			calls := gw.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, struct {
				Status Status `json:"status"`
			}{Status: tt.to}, calls[0].Body)
		})
	}
}

func TestService_Submissions(t *testing.T) {
	ctx := context.Background()
	svc, gw := setup()
	gw.On(http.MethodGet, "/submissions/assignment/a1", core.GatewayReply{Payload: "[" + submissionJSON + "]"}).
		On(http.MethodPost, "/submissions", core.GatewayReply{Payload: submissionJSON})

	subs, err := svc.ListSubmissions(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "42", subs[0].Answer)

	sub, err := svc.Submit(ctx, "a1", "42")
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)
	assert.Equal(t, NewSubmission{AssignmentID: "a1", Answer: "42"}, gw.Calls()[1].Body)

	_, err = svc.Submit(ctx, "a1", " \n ")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []core.FieldError{{Field: "answer", Error: "answer cannot be blank"}}, vErr.Fields)
}

func TestService_MySubmission(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		reply   core.GatewayReply
		wantNil bool
		wantErr bool
	}{
		{name: "found", reply: core.GatewayReply{Payload: submissionJSON}},
		{name: "null", reply: core.GatewayReply{Payload: `null`}, wantNil: true},
		{name: "no submission", reply: core.GatewayReply{Err: &core.APIError{Status: http.StatusNotFound, Message: "Submission not found"}}, wantNil: true},
		{name: "no assignment", reply: core.GatewayReply{Err: &core.APIError{Status: http.StatusNotFound, Message: "Assignment not found"}}, wantNil: true},
		{name: "unknown route", reply: core.GatewayReply{Err: &core.APIError{Status: http.StatusNotFound, Message: "Not Found"}}, wantNil: true, wantErr: true},
		{name: "not found, no message", reply: core.GatewayReply{Err: &core.APIError{Status: http.StatusNotFound, Message: core.FallbackMessage}}, wantNil: true, wantErr: true},
		{name: "server error", reply: core.GatewayReply{Err: &core.APIError{Status: http.StatusInternalServerError, Message: "boom"}}, wantNil: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw := setup()
			gw.On(http.MethodGet, "/submissions/me/a1", tt.reply)

			sub, err := svc.MySubmission(ctx, "a1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("MySubmission() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantNil {
				assert.Nil(t, sub)
				return
			}
			require.NotNil(t, sub)
			assert.Equal(t, "s1", sub.ID)
		})
	}
}

func TestService_ErrorsPassThrough(t *testing.T) {
	svc, gw := setup()
	apiErr := &core.APIError{Status: http.StatusForbidden, Message: "Not your assignment"}
	gw.On(http.MethodDelete, "/assignments/a1", core.GatewayReply{Err: apiErr})

	assert.Same(t, apiErr, svc.Delete(context.Background(), "a1"))
}
