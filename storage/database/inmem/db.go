// Package inmemdb is the process-local database behind the development API.
package inmemdb

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/user"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// nowFunc is mockable in tests.
var nowFunc = func() time.Time { return time.Now().UTC() }

type (
	DB struct {
		user       *userTable
		assignment *assignmentTable
		submission *submissionTable
	}

	userRow struct {
		user.User
		PasswordHash []byte
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*userRow
	}

	assignmentRow struct {
		assignment.Assignment
		CreatedAt time.Time
		seq       int
	}

	assignmentTable struct {
		mutex sync.RWMutex
		seq   int
		table map[string]*assignmentRow
	}

	submissionKey struct {
		assignmentID string
		studentID    string
	}

	submissionRow struct {
		assignment.Submission
		seq int
	}

	submissionTable struct {
		mutex sync.RWMutex
		seq   int
		table map[submissionKey]*submissionRow
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*userRow)},
		assignment: &assignmentTable{table: make(map[string]*assignmentRow)},
		submission: &submissionTable{table: make(map[submissionKey]*submissionRow)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*userRow)
	db.user.mutex.Unlock()

	db.assignment.mutex.Lock()
	db.assignment.table = make(map[string]*assignmentRow)
	db.assignment.mutex.Unlock()

	db.submission.mutex.Lock()
	db.submission.table = make(map[submissionKey]*submissionRow)
	db.submission.mutex.Unlock()
}
