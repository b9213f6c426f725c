package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-console/internal/core/cache"
	"user-console/internal/domain"
)

func sampleUser(id string) domain.User {
	return domain.User{
		ID:      id,
		Name:    "Leanne Graham",
		Email:   "leanne@april.com",
		Phone:   "1770736803",
		Company: "Romaguera-Crona",
		Address: []domain.Address{{City: "Gwenborough", Zipcode: "929983", Geo: []float64{-37.3159, 81.1496}}},
	}
}

func TestMemoryUserRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo(sampleUser("u1"))

	u2 := sampleUser("u2")
	u2.Name = "Ervin Howell"
	if err := r.Create(ctx, &u2); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := r.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != "u1" || list[1].ID != "u2" {
		t.Fatalf("list = %+v, %v", list, err)
	}

	// 返回副本，外部修改不影响存储
	list[0].Address[0].City = "mutated"
	got, _ := r.FindByID(ctx, "u1")
	if got.Address[0].City != "Gwenborough" {
		t.Fatalf("repo leaked internal state: %+v", got)
	}

	u2.Company = "Deckow-Crist"
	if err := r.Update(ctx, &u2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := r.FindByID(ctx, "u2"); got.Company != "Deckow-Crist" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := r.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, err := r.FindByID(ctx, "u1"); got != nil || err != nil {
		t.Fatalf("expected nil after delete, got %+v %v", got, err)
	}
	if err := r.Delete(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	missing := sampleUser("nope")
	if err := r.Update(ctx, &missing); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
}

func TestWithCacheNilReturnsNext(t *testing.T) {
	next := NewMemoryUserRepo()
	if got := WithCache(next, nil, time.Minute, zap.NewNop()); got != domain.UserRepository(next) {
		t.Fatalf("expected passthrough, got %T", got)
	}
}

func TestCachedUserRepoDegradesWhenRedisDown(t *testing.T) {
	c := &cache.Cache{RDB: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})}
	defer c.Close()

	ctx := context.Background()
	r := WithCache(NewMemoryUserRepo(sampleUser("u1")), c, time.Minute, zap.NewNop())

	list, err := r.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %+v, %v", list, err)
	}
	u := sampleUser("u2")
	if err := r.Create(ctx, &u); err != nil {
		t.Fatalf("create should ignore invalidate failure: %v", err)
	}
	got, err := r.FindByID(ctx, "u2")
	if err != nil || got == nil || got.ID != "u2" {
		t.Fatalf("find = %+v, %v", got, err)
	}
	if got, err := r.FindByID(ctx, "missing"); got != nil || err != nil {
		t.Fatalf("missing = %+v, %v", got, err)
	}
	if err := r.Delete(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("delete missing err = %v", err)
	}
}
