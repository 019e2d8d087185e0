// Package memory provides an in-memory UserRepository used by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/models"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]models.User)}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errors.NewUserNotFoundError(id)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, errors.NewUserNotFoundError(email)
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return errors.NewUserNotFoundError(user.ID)
	}
	existing.Name = user.Name
	existing.CodeforcesHandle = user.CodeforcesHandle
	existing.LeetcodeHandle = user.LeetcodeHandle
	existing.CodechefHandle = user.CodechefHandle
	existing.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = existing
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Snapshot.TotalScore > users[j].Snapshot.TotalScore
	})
	return users, nil
}

func (r *UserRepository) UpdateSnapshot(_ context.Context, id string, snap models.RatingSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return errors.NewUserNotFoundError(id)
	}
	existing.Snapshot = snap
	existing.UpdatedAt = time.Now().UTC()
	r.users[id] = existing
	return nil
}
