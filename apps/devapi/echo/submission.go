package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/storage/database/inmem"
)

type submissionApi struct {
	srv *Server
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := submissionApi{srv: srv}

	sg := g.Group("/submissions", jwt)
	sg.POST("", api.submit, roleMiddleware(user.RoleStudent))
	sg.GET("/me/:id", api.retrieveMine, roleMiddleware(user.RoleStudent))
	sg.GET("/assignment/:id", api.queryByAssignment, roleMiddleware(user.RoleTeacher), ownerMiddleware(srv.deps.AssignmentRepo))
}

// Handlers

// submit creates or replaces the student's submission. Resubmitting after the due date is allowed.
func (api *submissionApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data assignment.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err = data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	a, err := api.srv.deps.AssignmentRepo.GetAssignmentByID(data.AssignmentID)
	if err != nil {
		if errors.Cause(err) == inmemdb.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding assignment by ID")
	}
	if a.Status != assignment.StatusPublished {
		return errNotOpen
	}

	sub, err := api.srv.deps.SubmissionRepo.UpsertSubmission(a.ID, claims.Subject, data.Answer)
	if err != nil {
		return errors.Wrap(err, "saving submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// retrieveMine answers `null` when the student has not submitted yet.
func (api *submissionApi) retrieveMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.srv.deps.SubmissionRepo.GetSubmission(ctx.Param("id"), claims.Subject)
	if err != nil {
		if errors.Cause(err) == inmemdb.ErrNotFound {
			return ctx.JSON(http.StatusOK, nil)
		}
		return errors.Wrap(err, "finding submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) queryByAssignment(ctx echo.Context) error {
	a, err := contextAssignment(ctx)
	if err != nil {
		return err
	}
	subs, err := api.srv.deps.SubmissionRepo.QuerySubmissionsByAssignment(a.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
