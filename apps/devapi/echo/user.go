package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core/auth"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/storage/database/inmem"
)

type authApi struct {
	srv *Server
}

func registerAuthAPI(g *echo.Group, srv *Server) {
	api := authApi{srv: srv}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	usr, err := api.srv.deps.UserRepo.CreateUser(data)
	if err != nil {
		if errors.Cause(err) == inmemdb.ErrEmailExists {
			return errEmailTaken
		}
		return errors.Wrap(err, "creating user")
	}
	api.sendWelcome(usr)

	return ctx.JSON(http.StatusCreated, auth.Confirmation{Message: "User registered successfully", User: &usr})
}

func (api *authApi) sendWelcome(usr user.User) {
	if api.srv.deps.Mailer == nil {
		return
	}
	msg, err := newWelcomeMessage(usr, api.srv.deps.Conf.AppName)
	if err != nil {
		api.srv.deps.Logger.Error("rendering welcome email", err, usr)
		return
	}
	api.srv.deps.Mailer.SendMessages(msg)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	usr, err := api.srv.deps.UserRepo.Authenticate(data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == inmemdb.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(GetUserClaims(usr, api.srv.deps.Conf), api.srv.deps.Conf.DevAPI.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, session.Session{User: usr, Token: token})
}
