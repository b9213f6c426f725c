package repo

import (
	"context"
	"sync"

	"user-console/internal/domain"
)

// MemoryUserRepo 本地开发（db.driver=memory）与测试用
type MemoryUserRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.User
}

func NewMemoryUserRepo(seed ...domain.User) *MemoryUserRepo {
	r := &MemoryUserRepo{byID: map[string]domain.User{}}
	for _, u := range seed {
		r.order = append(r.order, u.ID)
		r.byID[u.ID] = clone(u)
	}
	return r
}

func clone(u domain.User) domain.User {
	out := u
	out.Address = make([]domain.Address, len(u.Address))
	for i, a := range u.Address {
		out.Address[i] = a
		out.Address[i].Geo = append([]float64{}, a.Geo...)
	}
	return out
}

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, u.ID)
	r.byID[u.ID] = clone(*u)
	return nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := clone(u)
	return &out, nil
}

func (r *MemoryUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.byID[id]))
	}
	return out, nil
}

func (r *MemoryUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[u.ID] = clone(*u)
	return nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
