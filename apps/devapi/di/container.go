// Package dig_container builds the development API's dependency graph.
package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/classdesk/apps/devapi/echo"
	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/services/email"
	"github.com/trezcool/classdesk/services/logger"
	"github.com/trezcool/classdesk/storage/database/inmem"
)

// ServerParams gathers what the API server is built from.
type ServerParams struct {
	dig.In

	Conf           *core.Config
	Logger         core.Logger
	UserRepo       echoapi.UserRepository
	AssignmentRepo echoapi.AssignmentRepository
	SubmissionRepo echoapi.SubmissionRepository
	Mailer         core.EmailService
	Validate       *validator.Validate
	Translator     ut.Translator
}

func newLogger(conf *core.Config) (core.Logger, *logsvc.RollbarLogger) {
	stdLogger := log.New(os.Stdout, "DEVAPI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger, logger
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Email.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "MAIL : ", log.LstdFlags))
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           p.Conf,
		Logger:         p.Logger,
		UserRepo:       p.UserRepo,
		AssignmentRepo: p.AssignmentRepo,
		SubmissionRepo: p.SubmissionRepo,
		Mailer:         p.Mailer,
		Validate:       p.Validate,
		Translator:     p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(inmemdb.Open))
	must(c.Provide(inmemdb.NewUserRepository, dig.As(new(echoapi.UserRepository))))
	must(c.Provide(inmemdb.NewAssignmentRepository, dig.As(new(echoapi.AssignmentRepository))))
	must(c.Provide(inmemdb.NewSubmissionRepository, dig.As(new(echoapi.SubmissionRepository))))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
