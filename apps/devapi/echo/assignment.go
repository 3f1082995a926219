package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/storage/database/inmem"
)

const contextAssignmentKey = "object"

var errAssignmentNotInCtx = errors.New("assignment not found in echo.Context")

type assignmentApi struct {
	srv *Server
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := assignmentApi{srv: srv}

	ag := g.Group("/assignments", jwt)
	ag.GET("/published", api.queryPublished, roleMiddleware(user.RoleStudent))

	tg := ag.Group("", roleMiddleware(user.RoleTeacher))
	tg.GET("/teacher", api.queryMine)
	tg.POST("", api.create)

	// detail endpoints
	dg := tg.Group("/:id", ownerMiddleware(srv.deps.AssignmentRepo))
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PUT("/status", api.setStatus)
}

// ownerMiddleware loads the `:id` assignment into the context and lets only its teacher through.
func ownerMiddleware(repo AssignmentRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			a, err := repo.GetAssignmentByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == inmemdb.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding assignment by ID")
			}
			if a.Teacher.ID != claims.Subject {
				return errNotOwner
			}
			ctx.Set(contextAssignmentKey, a)
			return next(ctx)
		}
	}
}

func contextAssignment(ctx echo.Context) (assignment.Assignment, error) {
	if a, ok := ctx.Get(contextAssignmentKey).(assignment.Assignment); ok {
		return a, nil
	}
	return assignment.Assignment{}, errAssignmentNotInCtx
}

// Handlers

func (api *assignmentApi) queryMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	as, err := api.srv.deps.AssignmentRepo.QueryAssignmentsByTeacher(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *assignmentApi) queryPublished(ctx echo.Context) error {
	as, err := api.srv.deps.AssignmentRepo.QueryAssignmentsByStatus(assignment.StatusPublished)
	if err != nil {
		return errors.Wrap(err, "querying published assignments")
	}

	// students see who set the assignment
	for i, a := range as {
		if usr, err := api.srv.deps.UserRepo.GetUserByID(a.Teacher.ID); err == nil {
			as[i].Teacher = assignment.Ref{ID: usr.ID, Name: usr.Name, Email: usr.Email}
		}
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data assignment.Fields
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Fields")
	}
	if err = data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	a, err := api.srv.deps.AssignmentRepo.CreateAssignment(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	a, err := contextAssignment(ctx)
	if err != nil {
		return err
	}
	if a.Status != assignment.StatusDraft {
		return errNotDraft
	}

	var data assignment.Fields
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Fields")
	}
	if err = data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	a, err = api.srv.deps.AssignmentRepo.UpdateAssignment(a.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	a, err := contextAssignment(ctx)
	if err != nil {
		return err
	}
	if a.Status != assignment.StatusDraft {
		return errNotDraft
	}

	if err = api.srv.deps.AssignmentRepo.DeleteAssignment(a.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Assignment deleted"})
}

func (api *assignmentApi) setStatus(ctx echo.Context) error {
	a, err := contextAssignment(ctx)
	if err != nil {
		return err
	}

	var data struct {
		Status string `json:"status"`
	}
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding status")
	}
	status, err := assignment.ParseStatus(data.Status)
	if err != nil || !a.Status.CanTransitionTo(status) {
		return errBadTransition
	}

	a, err = api.srv.deps.AssignmentRepo.SetAssignmentStatus(a.ID, status)
	if err != nil {
		return errors.Wrap(err, "setting assignment status")
	}
	return ctx.JSON(http.StatusOK, a)
}
