package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classdesk/core/assignment"
)

type SubmissionRepository struct {
	db    *submissionTable
	usrDB *userTable
}

func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db.submission, usrDB: db.user}
}

// UpsertSubmission stores the answer of studentID to assignmentID.
// A student has at most one submission per assignment: submitting again overwrites the answer and its date.
func (repo *SubmissionRepository) UpsertSubmission(assignmentID, studentID, answer string) (assignment.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := submissionKey{assignmentID: assignmentID, studentID: studentID}
	row, ok := repo.db.table[key]
	if !ok {
		repo.db.seq++
		row = &submissionRow{
			Submission: assignment.Submission{
				ID:         uuid.NewString(),
				Assignment: assignment.Ref{ID: assignmentID},
				Student:    assignment.Ref{ID: studentID},
			},
			seq: repo.db.seq,
		}
		repo.db.table[key] = row
	}
	row.Answer = answer
	row.SubmittedDate = nowFunc()
	return row.Submission, nil
}

func (repo *SubmissionRepository) GetSubmission(assignmentID, studentID string) (assignment.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[submissionKey{assignmentID: assignmentID, studentID: studentID}]; ok {
		return row.Submission, nil
	}
	return assignment.Submission{}, ErrNotFound
}

// QuerySubmissionsByAssignment returns the submissions to assignmentID, oldest first,
// with the students' names and emails filled in.
func (repo *SubmissionRepository) QuerySubmissionsByAssignment(assignmentID string) ([]assignment.Submission, error) {
	repo.db.mutex.RLock()
	rows := make([]*submissionRow, 0)
	for key, row := range repo.db.table {
		if key.assignmentID == assignmentID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	subs := make([]assignment.Submission, len(rows))
	for i, row := range rows {
		subs[i] = row.Submission
	}
	repo.db.mutex.RUnlock()

	repo.usrDB.mutex.RLock()
	defer repo.usrDB.mutex.RUnlock()
	for i := range subs {
		if usr, ok := repo.usrDB.table[subs[i].Student.ID]; ok {
			subs[i].Student.Name = usr.Name
			subs[i].Student.Email = usr.Email
		}
	}
	return subs, nil
}
