// Package assignment maps the assignment and submission operations onto the remote API.
package assignment

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/classdesk/core"
)

// 404 messages meaning "nothing submitted"; any other 404 is a real failure.
var noSubmissionMessages = []string{"submission not found", "assignment not found"}

type Service struct {
	gw         core.Gateway
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(gw core.Gateway, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{gw: gw, validate: validate, translator: translator}
}

// Teacher operations

func (svc *Service) ListMine(ctx context.Context) ([]Assignment, error) {
	return svc.list(ctx, "/assignments/teacher")
}

func (svc *Service) Create(ctx context.Context, f Fields) (Assignment, error) {
	if err := f.Validate(svc.validate); err != nil {
		return Assignment{}, core.TranslateValidationErrors(err, svc.translator)
	}
	var a Assignment
	if err := svc.gw.Do(ctx, http.MethodPost, "/assignments", f, &a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) Update(ctx context.Context, id string, f Fields) (Assignment, error) {
	if err := requireID(id); err != nil {
		return Assignment{}, err
	}
	if err := f.Validate(svc.validate); err != nil {
		return Assignment{}, core.TranslateValidationErrors(err, svc.translator)
	}
	var a Assignment
	if err := svc.gw.Do(ctx, http.MethodPut, "/assignments/"+url.PathEscape(id), f, &a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return svc.gw.Do(ctx, http.MethodDelete, "/assignments/"+url.PathEscape(id), nil, nil)
}

// SetStatus moves `current` one step forward to `to`. Any other transition is refused
// with ErrInvalidTransition before reaching the API.
func (svc *Service) SetStatus(ctx context.Context, current Assignment, to Status) (Assignment, error) {
	if err := requireID(current.ID); err != nil {
		return Assignment{}, err
	}
	if !current.Status.CanTransitionTo(to) {
		return Assignment{}, errors.Wrapf(ErrInvalidTransition, "%s to %s", current.Status, to)
	}

	body := struct {
		Status Status `json:"status"`
	}{Status: to}

	var a Assignment
	path := "/assignments/" + url.PathEscape(current.ID) + "/status"
	if err := svc.gw.Do(ctx, http.MethodPut, path, body, &a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) Publish(ctx context.Context, a Assignment) (Assignment, error) {
	return svc.SetStatus(ctx, a, StatusPublished)
}

// Complete closes a published assignment to new submissions.
func (svc *Service) Complete(ctx context.Context, a Assignment) (Assignment, error) {
	return svc.SetStatus(ctx, a, StatusCompleted)
}

func (svc *Service) ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	if err := requireID(assignmentID); err != nil {
		return nil, err
	}
	subs := make([]Submission, 0)
	if err := svc.gw.Do(ctx, http.MethodGet, "/submissions/assignment/"+url.PathEscape(assignmentID), nil, &subs); err != nil {
		return nil, err
	}
	if subs == nil {
		subs = make([]Submission, 0)
	}
	return subs, nil
}

// Student operations

func (svc *Service) ListPublished(ctx context.Context) ([]Assignment, error) {
	return svc.list(ctx, "/assignments/published")
}

// Submit sends the answer to an assignment. Submitting again replaces the previous answer.
func (svc *Service) Submit(ctx context.Context, assignmentID, answer string) (Submission, error) {
	ns := NewSubmission{AssignmentID: assignmentID, Answer: answer}
	if err := ns.Validate(svc.validate); err != nil {
		return Submission{}, core.TranslateValidationErrors(err, svc.translator)
	}
	var sub Submission
	if err := svc.gw.Do(ctx, http.MethodPost, "/submissions", ns, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// MySubmission returns the current student's submission, or nil when there is none yet.
func (svc *Service) MySubmission(ctx context.Context, assignmentID string) (*Submission, error) {
	if err := requireID(assignmentID); err != nil {
		return nil, err
	}
	var sub *Submission
	if err := svc.gw.Do(ctx, http.MethodGet, "/submissions/me/"+url.PathEscape(assignmentID), nil, &sub); err != nil {
		if isNoSubmission(err) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func isNoSubmission(err error) bool {
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return false
	}
	return lo.Contains(noSubmissionMessages, strings.ToLower(strings.TrimSpace(apiErr.Message)))
}

func (svc *Service) list(ctx context.Context, path string) ([]Assignment, error) {
	as := make([]Assignment, 0)
	if err := svc.gw.Do(ctx, http.MethodGet, path, nil, &as); err != nil {
		return nil, err
	}
	if as == nil {
		as = make([]Assignment, 0)
	}
	return as, nil
}

func requireID(id string) error {
	if core.CleanString(id) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "id is required"})
	}
	return nil
}
