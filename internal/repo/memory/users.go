package memory

import (
	"context"

	"github.com/geocoder89/taskhub/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.s.users[id], nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.byEmail[u.Email]; taken {
		return user.User{}, user.ErrEmailTaken
	}

	r.s.nextUserID++
	u.ID = r.s.nextUserID

	r.s.users[u.ID] = u
	r.s.byEmail[u.Email] = u.ID

	return u, nil
}

// Delete removes the user and every task they own.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}

	for taskID, t := range r.s.tasks {
		if t.UserID == id {
			delete(r.s.tasks, taskID)
		}
	}

	delete(r.s.byEmail, u.Email)
	delete(r.s.users, id)

	return nil
}
