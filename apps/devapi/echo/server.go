package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/user"
)

type (
	UserRepository interface {
		CreateUser(nu user.NewUser) (user.User, error)
		Authenticate(email, pwd string) (user.User, error)
		GetUserByID(id string) (user.User, error)
	}

	AssignmentRepository interface {
		CreateAssignment(teacherID string, f assignment.Fields) (assignment.Assignment, error)
		GetAssignmentByID(id string) (assignment.Assignment, error)
		QueryAssignmentsByTeacher(teacherID string) ([]assignment.Assignment, error)
		QueryAssignmentsByStatus(status assignment.Status) ([]assignment.Assignment, error)
		UpdateAssignment(id string, f assignment.Fields) (assignment.Assignment, error)
		SetAssignmentStatus(id string, status assignment.Status) (assignment.Assignment, error)
		DeleteAssignment(id string) error
	}

	SubmissionRepository interface {
		UpsertSubmission(assignmentID, studentID, answer string) (assignment.Submission, error)
		GetSubmission(assignmentID, studentID string) (assignment.Submission, error)
		QuerySubmissionsByAssignment(assignmentID string) ([]assignment.Submission, error)
	}

	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		UserRepo       UserRepository
		AssignmentRepo AssignmentRepository
		SubmissionRepo SubmissionRepository
		Mailer         core.EmailService
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	// Server is the development stand-in for the remote API.
	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      middleware.JWTConfig
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newJWTConfig(deps.Conf.DevAPI.SecretKey),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.RequestID()) // echoes the client's X-Request-ID

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	api := s.app.Group("/api")
	api.GET("", home)

	jwt := middleware.JWTWithConfig(s.jwt)
	registerAuthAPI(api, s)
	registerAssignmentAPI(api, jwt, s)
	registerSubmissionAPI(api, jwt, s)
}

// Start blocks until the server stops. Failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.DevAPI.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Welcome to the classdesk development API!"})
}
