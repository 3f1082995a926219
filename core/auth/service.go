// Package auth logs users in and out of the remote API.
package auth

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
)

// Confirmation is what the API answers to a registration.
type Confirmation struct {
	Message string     `json:"message,omitempty"`
	User    *user.User `json:"user,omitempty"`
}

type Service struct {
	gw         core.Gateway
	sessions   *session.Manager
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(gw core.Gateway, sessions *session.Manager, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		gw:         gw,
		sessions:   sessions,
		validate:   validate,
		translator: translator,
	}
}

// Login exchanges credentials for a Session and makes it the current one.
func (svc *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	creds := user.Credentials{Email: email, Password: password}
	if err := creds.Validate(svc.validate); err != nil {
		return session.Session{}, core.TranslateValidationErrors(err, svc.translator)
	}

	var sess session.Session
	if err := svc.gw.Do(ctx, http.MethodPost, "/auth/login", creds, &sess); err != nil {
		return session.Session{}, err
	}
	if !sess.Valid() {
		return session.Session{}, &core.APIError{
			Status:  http.StatusOK,
			Message: core.FallbackMessage,
			Err:     errors.Wrap(session.ErrInvalidSession, "login response"),
		}
	}

	if err := svc.sessions.Create(ctx, sess); err != nil {
		return session.Session{}, errors.Wrap(err, "creating session")
	}
	return sess, nil
}

// Register creates an account. It does not log the new user in.
func (svc *Service) Register(ctx context.Context, nu user.NewUser) (Confirmation, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return Confirmation{}, core.TranslateValidationErrors(err, svc.translator)
	}

	var conf Confirmation
	if err := svc.gw.Do(ctx, http.MethodPost, "/auth/register", nu, &conf); err != nil {
		return Confirmation{}, err
	}
	return conf, nil
}

// Logout forgets the current session. The API keeps no server-side session to revoke.
func (svc *Service) Logout(ctx context.Context) error {
	return svc.sessions.Destroy(ctx)
}
