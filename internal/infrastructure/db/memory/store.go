// Package memory provides mutex-guarded account and role repositories for
// development and tests. They honor the same uniqueness contract as the Mongo
// repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/securelog/admin-api/internal/core/domain"
)

type AccountRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.User
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *AccountRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *AccountRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	return cloneUser(u), nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.findLocked(func(u *domain.User) bool { return u.Username == username }); u != nil {
		return cloneUser(u), nil
	}
	return nil, fmt.Errorf("%w: username %q", domain.ErrUserNotFound, username)
}

func (r *AccountRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *domain.User) bool { return u.Username == username }) != nil, nil
}

func (r *AccountRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *domain.User) bool { return u.Email == email }) != nil, nil
}

func (r *AccountRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUniqueLocked(user, 0); err != nil {
		return nil, err
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *AccountRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, user.ID)
	}
	if err := r.checkUniqueLocked(user, user.ID); err != nil {
		return nil, err
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *AccountRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	delete(r.byID, id)
	return nil
}

// checkUniqueLocked rejects a username or email held by an account other than
// self.
func (r *AccountRepository) checkUniqueLocked(user *domain.User, self int64) error {
	for id, u := range r.byID {
		if id == self {
			continue
		}
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q is already taken", domain.ErrUserExists, user.Username)
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %q is already in use", domain.ErrUserExists, user.Email)
		}
	}
	return nil
}

func (r *AccountRepository) findLocked(match func(*domain.User) bool) *domain.User {
	for _, u := range r.byID {
		if match(u) {
			return u
		}
	}
	return nil
}

type RoleRepository struct {
	mu     sync.RWMutex
	nextID int64
	byName map[domain.AppRole]domain.Role
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{byName: make(map[domain.AppRole]domain.Role)}
}

func (r *RoleRepository) FindByName(_ context.Context, name domain.AppRole) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
	}
	return &role, nil
}

func (r *RoleRepository) Create(_ context.Context, name domain.AppRole) (*domain.Role, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoleExists, name)
	}
	r.nextID++
	role := domain.Role{ID: r.nextID, Name: name}
	r.byName[name] = role
	return &role, nil
}

func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]*domain.Role, 0, len(r.byName))
	for _, role := range r.byName {
		role := role
		roles = append(roles, &role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}
