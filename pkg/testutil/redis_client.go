package testutil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
)

// MockRedisClient keeps objects in memory. Any *Func field overrides the
// in-memory behavior of its method.
type MockRedisClient struct {
	DelFunc    func(ctx context.Context, key ...string) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error

	data *xsync.MapOf[string, []byte]
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{data: xsync.NewMapOf[[]byte]()}
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	for _, k := range key {
		m.data.Delete(k)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.data.Store(key, b)

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	b, ok := m.data.Load(key)
	if !ok {
		return redis.Nil
	}

	return json.Unmarshal(b, v)
}
