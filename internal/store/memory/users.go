package memory

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type UserStore struct {
	db *DB
}

func matchUser(u models.User, f store.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) && !containsFold(u.Phone, f.Search) {
		return false
	}
	return true
}

func userLess(field string) func(a, b models.User) bool {
	switch field {
	case "name":
		return func(a, b models.User) bool { return a.Name < b.Name }
	case "email":
		return func(a, b models.User) bool { return a.Email < b.Email }
	default:
		return func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (s *UserStore) Insert(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.db.now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	s.db.users = append(s.db.users, *user)
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]models.User, 0, len(ids))
	for _, u := range s.db.users {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) List(_ context.Context, filter store.UserFilter, page store.Page) ([]models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]models.User, 0)
	for _, u := range s.db.users {
		if matchUser(u, filter) {
			matched = append(matched, u)
		}
	}
	sortDocs(matched, page.Desc, userLess(page.SortBy))
	start, end := window(len(matched), page)
	return matched[start:end], nil
}

func (s *UserStore) Count(_ context.Context, filter store.UserFilter) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var n int64
	for _, u := range s.db.users {
		if matchUser(u, filter) {
			n++
		}
	}
	return n, nil
}
