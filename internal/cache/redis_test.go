package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

type memStore struct {
	data    map[string]string
	ttl     time.Duration
	failGet error
	failSet error
	deletes int
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.failSet != nil {
		return redis.NewStatusResult("", m.failSet)
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.deletes++
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type item struct {
	ID  int    `json:"id"`
	Nom string `json:"nom"`
}

func TestValue_SetGetInvalidate(t *testing.T) {
	store := newMemStore()
	v := NewValue[[]item](store, "produits:list", time.Minute, nil)
	ctx := context.Background()

	if _, ok := v.Get(ctx); ok {
		t.Fatalf("expected miss on empty store")
	}

	v.Set(ctx, []item{{ID: 1, Nom: "Doliprane"}, {ID: 2, Nom: "Spasfon"}})
	if store.ttl != time.Minute {
		t.Fatalf("expected ttl to be forwarded, got %v", store.ttl)
	}
	got, ok := v.Get(ctx)
	if !ok || len(got) != 2 || got[1].Nom != "Spasfon" {
		t.Fatalf("unexpected cached value %v %v", got, ok)
	}

	v.Invalidate(ctx)
	if _, ok := v.Get(ctx); ok {
		t.Fatalf("expected miss after invalidation")
	}
}

func TestValue_FailuresAreMisses(t *testing.T) {
	store := newMemStore()
	v := NewValue[[]item](store, "k", 0, nil)
	ctx := context.Background()

	store.failSet = errors.New("READONLY")
	v.Set(ctx, []item{{ID: 1}})
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored on failed write")
	}

	store.failSet = nil
	store.data["k"] = "{not json"
	if _, ok := v.Get(ctx); ok {
		t.Fatalf("corrupt entry should be a miss")
	}

	store.failGet = errors.New("connection reset")
	if _, ok := v.Get(ctx); ok {
		t.Fatalf("read failure should be a miss")
	}
}

func TestValue_NilIsDisabled(t *testing.T) {
	var v *Value[[]item]
	ctx := context.Background()
	v.Set(ctx, []item{{ID: 1}})
	v.Invalidate(ctx)
	if _, ok := v.Get(ctx); ok {
		t.Fatalf("nil cache must always miss")
	}
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
