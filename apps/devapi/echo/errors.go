package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	errEmailTaken           = echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "Access denied")
	errNotOwner             = echo.NewHTTPError(http.StatusForbidden, "Not authorized to manage this assignment")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
	errNotDraft             = echo.NewHTTPError(http.StatusBadRequest, "Only draft assignments can be changed")
	errBadTransition        = echo.NewHTTPError(http.StatusBadRequest, "Invalid status transition")
	errNotOpen              = echo.NewHTTPError(http.StatusBadRequest, "Assignment is not open for submissions")
)

// errorResponse is the body of every error: `message` is what clients show.
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var resp errorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				resp.Message = "No token, authorization denied"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				resp.Message = msg
			} else {
				resp.Message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp = validationResponse(core.TranslateValidationErrors(origErr, translator))
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp = validationResponse(origErr)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			resp.Message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr = claims.User()
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			resp.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func validationResponse(err error) errorResponse {
	resp := errorResponse{Message: err.Error()}
	if vErr, ok := err.(*core.ValidationError); ok && len(vErr.Fields) > 0 {
		resp.Message = vErr.Fields[0].Error
		resp.Errors = make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			resp.Errors[fErr.Field] = fErr.Error
		}
	}
	return resp
}
