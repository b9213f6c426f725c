package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"user-console/internal/core/cache"
	"user-console/internal/domain"
)

const keyAllUsers = "users:all"

func keyUser(id string) string { return "users:" + id }

// CachedUserRepo 读走 redis（singleflight 合并回源），写后失效
type CachedUserRepo struct {
	next  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// WithCache c 为 nil 时原样返回 next
func WithCache(next domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) domain.UserRepository {
	if c == nil {
		return next
	}
	return &CachedUserRepo{next: next, cache: c, ttl: ttl, log: l}
}

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, keyUser(id), r.ttl, func(ctx context.Context) (*domain.User, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *CachedUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out, err := cache.GetOrLoadJSON(r.cache, ctx, keyAllUsers, r.ttl, func(ctx context.Context) (*[]domain.User, error) {
		us, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return &us, nil
	})
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

func (r *CachedUserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.next.Create(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, keyAllUsers, keyUser(u.ID))
	return nil
}

func (r *CachedUserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.next.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, keyAllUsers, keyUser(u.ID))
	return nil
}

func (r *CachedUserRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, keyAllUsers, keyUser(id))
	return nil
}

func (r *CachedUserRepo) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Invalidate(ctx, keys...); err != nil {
		r.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
