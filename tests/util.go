// Package testutil wires a development API and a client against it for end-to-end tests.
package testutil

import (
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classdesk/apps/devapi/echo"
	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/services/email"
	"github.com/trezcool/classdesk/services/gateway"
	"github.com/trezcool/classdesk/services/logger"
	"github.com/trezcool/classdesk/storage/database/inmem"
	"github.com/trezcool/classdesk/storage/session/inmem"
)

// Conf returns the configuration used by tests.
func Conf() *core.Config {
	return &core.Config{
		AppName:  "Classdesk",
		Build:    "test",
		Env:      "TEST",
		TestMode: true,
		API:      core.APIConfig{Timeout: 10 * time.Second},
		Session:  core.SessionConfig{Store: "memory", Key: "user"},
		Email:    core.EmailConfig{DefaultFrom: mail.Address{Name: "Classdesk", Address: "no-reply@classdesk.local"}},
		DevAPI: core.DevAPIConfig{
			SecretKey:       "secret",
			TokenTTL:        time.Hour,
			ShutdownTimeout: time.Second,
		},
	}
}

// NewValidator returns a validator with every validation of the module registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)
	return validate, translator
}

// API is a development API served over a real listener.
type API struct {
	Conf   *core.Config
	DB     *inmemdb.DB
	Users  *inmemdb.UserRepository
	Mailer *emailsvc.ConsoleServiceMock
	Server *echoapi.Server
	HTTP   *httptest.Server
}

// StartAPI starts a development API stopped at the end of the test.
func StartAPI(t *testing.T) *API {
	conf := Conf()
	db := inmemdb.Open()
	validate, translator := NewValidator()
	users := inmemdb.NewUserRepository(db)
	mailer := emailsvc.NewConsoleServiceMock(conf)

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewLoggerMock(),
		UserRepo:       users,
		AssignmentRepo: inmemdb.NewAssignmentRepository(db),
		SubmissionRepo: inmemdb.NewSubmissionRepository(db),
		Mailer:         mailer,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	ts := httptest.NewServer(srv)
	conf.API.BaseURL = ts.URL + "/api"

	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})
	return &API{Conf: conf, DB: db, Users: users, Mailer: mailer, Server: srv, HTTP: ts}
}

// CreateUser registers a user straight into the API's database.
func (api *API) CreateUser(t *testing.T, name, email, pwd string, role user.Role) user.User {
	usr, err := api.Users.CreateUser(user.NewUser{Name: name, Email: email, Password: pwd, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Token returns a valid bearer token for usr.
func (api *API) Token(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, api.Conf), api.Conf.DevAPI.SecretKey)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Client is the client side of the module plugged onto an API.
type Client struct {
	Sessions *session.Manager
	Gateway  *gatewaysvc.HTTPGateway
	Logger   *logsvc.LoggerMock
}

// NewClient returns a client of api keeping its session in memory.
func NewClient(t *testing.T, api *API) *Client {
	logger := logsvc.NewLoggerMock()
	sessions := session.NewManager(inmemstore.NewStore(), logger)
	gw, err := gatewaysvc.NewHTTPGateway(gatewaysvc.Options{
		BaseURL:  api.Conf.API.BaseURL,
		Timeout:  api.Conf.API.Timeout,
		Sessions: sessions,
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return &Client{Sessions: sessions, Gateway: gw, Logger: logger}
}
