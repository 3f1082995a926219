package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/services/logger"
	"github.com/trezcool/classdesk/storage/session/inmem"
)

const loginReply = `{"user":{"_id":"u1","name":"Ada","email":"ada@test.cd","role":"teacher"},"token":"tok-1"}`

func setup() (*Service, *core.GatewayMock, *session.Manager) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	gw := core.NewGatewayMock()
	mgr := session.NewManager(inmemstore.NewStore(), logsvc.NewLoggerMock())
	return NewService(gw, mgr, validate, translator), gw, mgr
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, gw, mgr := setup()
	gw.On(http.MethodPost, "/auth/login", core.GatewayReply{Payload: loginReply})

	sess, err := svc.Login(ctx, "  ADA@test.cd ", "secret")
	require.NoError(t, err)

	want := session.Session{
		User:  user.User{ID: "u1", Name: "Ada", Email: "ada@test.cd", Role: user.RoleTeacher},
		Token: "tok-1",
	}
	assert.Equal(t, want, sess)
	assert.Equal(t, &want, mgr.Current(ctx), "session persisted")

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, user.Credentials{Email: "ada@test.cd", Password: "secret"}, calls[0].Body)
}

func TestService_LoginValidation(t *testing.T) {
	tests := []struct {
		name       string
		email, pwd string
		wantFields []core.FieldError
	}{
		{
			name:       "empty",
			wantFields: []core.FieldError{{Field: "email", Error: "email is required"}, {Field: "password", Error: "password is required"}},
		},
		{
			name:       "bad email",
			email:      "ada",
			pwd:        "secret",
			wantFields: []core.FieldError{{Field: "email", Error: "invalid email address"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, _ := setup()

			_, err := svc.Login(context.Background(), tt.email, tt.pwd)
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantFields, vErr.Fields)
			assert.Empty(t, gw.Calls(), "invalid forms never reach the API")
		})
	}
}

func TestService_LoginFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("api error passes through", func(t *testing.T) {
		svc, gw, mgr := setup()
		apiErr := &core.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials"}
		gw.On(http.MethodPost, "/auth/login", core.GatewayReply{Err: apiErr})

		_, err := svc.Login(ctx, "ada@test.cd", "nope")
		assert.Same(t, apiErr, err)
		assert.Nil(t, mgr.Current(ctx))
	})

	t.Run("incomplete session", func(t *testing.T) {
		svc, gw, mgr := setup()
		gw.On(http.MethodPost, "/auth/login", core.GatewayReply{Payload: `{"user":{"id":"u1","role":"student"}}`})

		_, err := svc.Login(ctx, "ada@test.cd", "secret")
		require.Error(t, err)
		assert.Equal(t, core.FallbackMessage, err.Error())
		assert.Nil(t, mgr.Current(ctx), "partial sessions are never stored")
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, gw, mgr := setup()
	gw.On(http.MethodPost, "/auth/register", core.GatewayReply{Payload: `{"message":"User registered successfully"}`})

	conf, err := svc.Register(ctx, user.NewUser{Name: " Bob ", Email: "Bob@Test.cd", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", conf.Message)
	assert.Nil(t, mgr.Current(ctx), "registering does not log in")

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, user.NewUser{Name: "Bob", Email: "bob@test.cd", Password: "secret", Role: user.RoleStudent}, calls[0].Body)
}

func TestService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name       string
		nu         user.NewUser
		wantFields []core.FieldError
	}{
		{
			name:       "blank name",
			nu:         user.NewUser{Name: "   ", Email: "bob@test.cd", Password: "secret"},
			wantFields: []core.FieldError{{Field: "name", Error: "name is required"}},
		},
		{
			name:       "short password",
			nu:         user.NewUser{Name: "Bob", Email: "bob@test.cd", Password: "12345"},
			wantFields: []core.FieldError{{Field: "password", Error: "password must contain at least 6 characters"}},
		},
		{
			name:       "unknown role",
			nu:         user.NewUser{Name: "Bob", Email: "bob@test.cd", Password: "secret", Role: "admin"},
			wantFields: []core.FieldError{{Field: "role", Error: "role must be one of student or teacher"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, _ := setup()

			_, err := svc.Register(context.Background(), tt.nu)
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantFields, vErr.Fields)
			assert.Empty(t, gw.Calls())
		})
	}
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, gw, mgr := setup()
	gw.On(http.MethodPost, "/auth/login", core.GatewayReply{Payload: loginReply})

	_, err := svc.Login(ctx, "ada@test.cd", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, mgr.Current(ctx))
}
