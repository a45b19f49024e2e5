package repositories

import (
	"strings"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// UserRepository reads users.json.
type UserRepository struct {
	store *docstore.Store
}

func NewUserRepository(st *docstore.Store) *UserRepository {
	return &UserRepository{store: st}
}

// All returns every user, password hashes included.
func (r *UserRepository) All() ([]models.User, error) {
	users := []models.User{}
	if err := load(r.store, "users.All", UsersDocument, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// FindByEmail looks a user up by case-insensitive email.
func (r *UserRepository) FindByEmail(email string) (models.User, bool, error) {
	users, err := r.All()
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// Save replaces users.json.
func (r *UserRepository) Save(users []models.User) error {
	return save(r.store, "users.Save", UsersDocument, users)
}
