package inmemdb

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/classdesk/core/user"
)

type UserRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.user}
}

func (repo *UserRepository) findByEmail(email string) *userRow {
	for _, row := range repo.db.table {
		if row.Email == email {
			return row
		}
	}
	return nil
}

// CreateUser stores nu with a bcrypt hash of its password. Emails are unique.
func (repo *UserRepository) CreateUser(nu user.NewUser) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, errors.Wrap(err, "hashing password")
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.findByEmail(nu.Email) != nil {
		return user.User{}, ErrEmailExists
	}
	row := &userRow{
		User: user.User{
			ID:    uuid.NewString(),
			Name:  nu.Name,
			Email: nu.Email,
			Role:  nu.Role,
		},
		PasswordHash: hash,
	}
	repo.db.table[row.ID] = row
	return row.User, nil
}

// Authenticate returns the user owning email when pwd matches its password.
func (repo *UserRepository) Authenticate(email, pwd string) (user.User, error) {
	repo.db.mutex.RLock()
	row := repo.findByEmail(email)
	repo.db.mutex.RUnlock()

	if row == nil {
		return user.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(pwd)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return row.User, nil
}

func (repo *UserRepository) GetUserByID(id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.User, nil
	}
	return user.User{}, ErrNotFound
}
