package assignment

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/classdesk/core"
)

// Statuses
const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCompleted Status = "COMPLETED"
)

const dateLayout = "2006-01-02"

var (
	AllStatuses = []Status{StatusDraft, StatusPublished, StatusCompleted}

	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status only ever moves forward: DRAFT -> PUBLISHED -> COMPLETED.
type Status string

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(core.CleanString(s)))
	if !st.IsValid() {
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	return lo.Contains(AllStatuses, s)
}

func (s Status) String() string { return string(s) }

// Next returns the only status s may move to.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusDraft:
		return StatusPublished, true
	case StatusPublished:
		return StatusCompleted, true
	default:
		return "", false
	}
}

func (s Status) CanTransitionTo(to Status) bool {
	next, ok := s.Next()
	return ok && next == to
}

// Date is a calendar day. It decodes full timestamps as well as bare `2006-01-02` dates.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = core.CleanString(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Date{t.UTC()}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errors.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	date, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = date
	return nil
}

// Ref is a reference to another document: either its bare id, or the populated document itself.
type Ref struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := sonic.Unmarshal(data, &id); err == nil {
		*r = Ref{ID: id}
		return nil
	}
	var aux struct {
		ID    string `json:"id"`
		DocID string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Ref{ID: aux.ID, Name: aux.Name, Email: aux.Email}
	if r.ID == "" {
		r.ID = aux.DocID
	}
	return nil
}

type Assignment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     Date   `json:"dueDate"`
	Status      Status `json:"status"`
	Teacher     Ref    `json:"teacherId"`
}

// UnmarshalJSON also accepts document stores' `_id`.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          string `json:"id"`
		DocID       string `json:"_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     Date   `json:"dueDate"`
		Status      Status `json:"status"`
		Teacher     Ref    `json:"teacherId"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Assignment{
		ID:          aux.ID,
		Title:       aux.Title,
		Description: aux.Description,
		DueDate:     aux.DueDate,
		Status:      aux.Status,
		Teacher:     aux.Teacher,
	}
	if a.ID == "" {
		a.ID = aux.DocID
	}
	return nil
}

// Action is something a teacher can do to one of their assignments.
type Action string

// Actions
const (
	ActionEdit            Action = "edit"
	ActionDelete          Action = "delete"
	ActionPublish         Action = "publish"
	ActionClose           Action = "close"
	ActionViewSubmissions Action = "submissions"
)

// Allows reports whether act is offered for the assignment in its current status.
func (a Assignment) Allows(act Action) bool {
	switch act {
	case ActionEdit, ActionDelete:
		return a.Status == StatusDraft
	case ActionPublish:
		return a.Status.CanTransitionTo(StatusPublished)
	case ActionClose:
		return a.Status.CanTransitionTo(StatusCompleted)
	case ActionViewSubmissions:
		return a.Status != StatusDraft
	default:
		return false
	}
}

// FilterByStatus keeps the assignments in status. An empty status keeps them all.
func FilterByStatus(as []Assignment, status Status) []Assignment {
	if status == "" {
		return as
	}
	return lo.Filter(as, func(a Assignment, _ int) bool {
		return a.Status == status
	})
}

// ParseFilter reads a list filter: `ALL` (or nothing) or one of the statuses.
func ParseFilter(s string) (Status, error) {
	if s = core.CleanString(s); s == "" || strings.EqualFold(s, "ALL") {
		return "", nil
	}
	return ParseStatus(s)
}

// Fields is the editable part of an Assignment.
type Fields struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	DueDate     Date   `json:"dueDate" validate:"required"`
}

func (f *Fields) Clean() {
	f.Title = core.CleanString(f.Title)
	f.Description = core.CleanString(f.Description)
}

// FieldsOf returns the editable fields of a, e.g. to prefill an edit form.
func FieldsOf(a Assignment) Fields {
	return Fields{Title: a.Title, Description: a.Description, DueDate: a.DueDate}
}

type Submission struct {
	ID            string    `json:"id"`
	Assignment    Ref       `json:"assignmentId"`
	Student       Ref       `json:"studentId"`
	Answer        string    `json:"answer"`
	SubmittedDate time.Time `json:"submittedDate"`
}

// UnmarshalJSON also accepts document stores' `_id`.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID            string    `json:"id"`
		DocID         string    `json:"_id"`
		Assignment    Ref       `json:"assignmentId"`
		Student       Ref       `json:"studentId"`
		Answer        string    `json:"answer"`
		SubmittedDate time.Time `json:"submittedDate"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Submission{
		ID:            aux.ID,
		Assignment:    aux.Assignment,
		Student:       aux.Student,
		Answer:        aux.Answer,
		SubmittedDate: aux.SubmittedDate,
	}
	if s.ID == "" {
		s.ID = aux.DocID
	}
	return nil
}

// NewSubmission is a student's answer to an assignment.
type NewSubmission struct {
	AssignmentID string `json:"assignmentId" validate:"required"`
	Answer       string `json:"answer" validate:"required,notblank"`
}
