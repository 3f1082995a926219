package user

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core"
)

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher}

	ErrUnknownRole = errors.New("unknown role")
)

// Role is closed: a value is always one of RoleStudent or RoleTeacher once decoded.
type Role string

func ParseRole(s string) (Role, error) {
	switch r := Role(core.CleanString(s, true /* lower */)); r {
	case RoleStudent, RoleTeacher:
		return r, nil
	default:
		return "", errors.Wrapf(ErrUnknownRole, "%q", s)
	}
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON also accepts document stores' `_id`.
func (u *User) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID    string `json:"id"`
		DocID string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  Role   `json:"role"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User{ID: aux.ID, Name: aux.Name, Email: aux.Email, Role: aux.Role}
	if u.ID == "" {
		u.ID = aux.DocID
	}
	return nil
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Credentials is what a user logs in with.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,role"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
}
