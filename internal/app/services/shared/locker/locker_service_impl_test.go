package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) SetRaw(ctx context.Context, key, value string, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) GetRaw(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, key, ttl)
	return args.Int(0), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func TestLockService_TryLock(t *testing.T) {
	ctx := context.Background()

	t.Run("Acquired Returns Lock Value", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "registration:submit:abc", mock.AnythingOfType("string"), 30*time.Second).Return(true, nil)

		service := newLockService(repo, zap.NewNop())
		acquired, lockValue, err := service.TryLock(ctx, "registration:submit:abc", 30*time.Second)

		assert.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, lockValue)
		repo.AssertExpectations(t)
	})

	t.Run("Held Elsewhere Is Not Acquired", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "k", mock.Anything, time.Second).Return(false, nil)

		service := newLockService(repo, zap.NewNop())
		acquired, lockValue, err := service.TryLock(ctx, "k", time.Second)

		assert.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, lockValue)
	})

	t.Run("Redis Failure Is Reported", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("TrySetNX", ctx, "k", mock.Anything, time.Second).Return(false, errors.New("connection refused"))

		service := newLockService(repo, zap.NewNop())
		acquired, _, err := service.TryLock(ctx, "k", time.Second)

		assert.Error(t, err)
		assert.False(t, acquired)
	})
}

func TestLockService_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Releases Lock", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "k").Return(`"owner-1"`, nil)
		repo.On("Delete", ctx, []string{"k"}).Return(nil)

		service := newLockService(repo, zap.NewNop())
		assert.NoError(t, service.Unlock(ctx, "k", "owner-1"))
		repo.AssertExpectations(t)
	})

	t.Run("Other Owner Is Rejected", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "k").Return(`"owner-2"`, nil)

		service := newLockService(repo, zap.NewNop())
		assert.Error(t, service.Unlock(ctx, "k", "owner-1"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Expired Lock Is A No-op", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "k").Return("", nil)

		service := newLockService(repo, zap.NewNop())
		assert.NoError(t, service.Unlock(ctx, "k", "owner-1"))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestLockService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Extends Expiry", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "k").Return(`"owner-1"`, nil)
		repo.On("Set", ctx, "k", "owner-1", time.Minute).Return(nil)

		service := newLockService(repo, zap.NewNop())
		assert.NoError(t, service.Refresh(ctx, "k", "owner-1", time.Minute))
		repo.AssertExpectations(t)
	})

	t.Run("Lost Lock Cannot Be Refreshed", func(t *testing.T) {
		repo := new(MockRedisRepository)
		repo.On("Get", ctx, "k").Return("", nil)

		service := newLockService(repo, zap.NewNop())
		assert.Error(t, service.Refresh(ctx, "k", "owner-1", time.Minute))
	})
}
