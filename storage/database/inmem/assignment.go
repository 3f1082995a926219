package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classdesk/core/assignment"
)

type AssignmentRepository struct {
	db    *assignmentTable
	subDB *submissionTable
}

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db.assignment, subDB: db.submission}
}

func (repo *AssignmentRepository) query(keep func(assignment.Assignment) bool) []assignment.Assignment {
	rows := make([]*assignmentRow, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		if keep(row.Assignment) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	as := make([]assignment.Assignment, len(rows))
	for i, row := range rows {
		as[i] = row.Assignment
	}
	return as
}

// CreateAssignment stores a new DRAFT assignment owned by teacherID.
func (repo *AssignmentRepository) CreateAssignment(teacherID string, f assignment.Fields) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	row := &assignmentRow{
		Assignment: assignment.Assignment{
			ID:          uuid.NewString(),
			Title:       f.Title,
			Description: f.Description,
			DueDate:     f.DueDate,
			Status:      assignment.StatusDraft,
			Teacher:     assignment.Ref{ID: teacherID},
		},
		CreatedAt: nowFunc(),
		seq:       repo.db.seq,
	}
	repo.db.table[row.ID] = row
	return row.Assignment, nil
}

func (repo *AssignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.Assignment, nil
	}
	return assignment.Assignment{}, ErrNotFound
}

// QueryAssignmentsByTeacher returns the assignments of teacherID, oldest first.
func (repo *AssignmentRepository) QueryAssignmentsByTeacher(teacherID string) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(a assignment.Assignment) bool { return a.Teacher.ID == teacherID }), nil
}

// QueryAssignmentsByStatus returns every assignment in status, oldest first.
func (repo *AssignmentRepository) QueryAssignmentsByStatus(status assignment.Status) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(a assignment.Assignment) bool { return a.Status == status }), nil
}

func (repo *AssignmentRepository) UpdateAssignment(id string, f assignment.Fields) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return assignment.Assignment{}, ErrNotFound
	}
	row.Title = f.Title
	row.Description = f.Description
	row.DueDate = f.DueDate
	return row.Assignment, nil
}

func (repo *AssignmentRepository) SetAssignmentStatus(id string, status assignment.Status) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return assignment.Assignment{}, ErrNotFound
	}
	row.Status = status
	return row.Assignment, nil
}

// DeleteAssignment removes the assignment and its submissions.
func (repo *AssignmentRepository) DeleteAssignment(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return ErrNotFound
	}
	delete(repo.db.table, id)

	repo.subDB.mutex.Lock()
	defer repo.subDB.mutex.Unlock()
	for key := range repo.subDB.table {
		if key.assignmentID == id {
			delete(repo.subDB.table, key)
		}
	}
	return nil
}
