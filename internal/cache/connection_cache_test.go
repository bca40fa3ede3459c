package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup-service/internal/mocks"
	"linkup-service/internal/models"
)

type fakeStore struct {
	data map[string]string
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	val, ok := s.data[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return val, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Del(_ context.Context, keys ...string) error {
	if s.err != nil {
		return s.err
	}
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func TestIsConnectedCachesResult(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("IsConnected", mock.Anything, 1, 2).Return(true, nil).Once()

	for i := 0; i < 3; i++ {
		connected, err := cache.IsConnected(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.True(t, connected)
	}

	repo.AssertExpectations(t)
	assert.Equal(t, "1", store.data["connected:1:2"])
}

func TestIsConnectedKeyIgnoresOrder(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("IsConnected", mock.Anything, 2, 1).Return(false, nil).Once()

	connected, err := cache.IsConnected(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.False(t, connected)

	// The reversed pair hits the same key.
	connected, err = cache.IsConnected(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)
	repo.AssertExpectations(t)
}

func TestIsConnectedStoreFailureFallsThrough(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	store.err = errors.New("redis down")
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("IsConnected", mock.Anything, 1, 2).Return(true, nil).Twice()

	for i := 0; i < 2; i++ {
		connected, err := cache.IsConnected(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.True(t, connected)
	}
	repo.AssertExpectations(t)
}

func TestIsConnectedRepoErrorPropagates(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("IsConnected", mock.Anything, 1, 2).Return(false, errors.New("db down")).Once()

	_, err := cache.IsConnected(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Empty(t, store.data)
}

func TestRespondInvalidatesPair(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	store.data["connected:1:2"] = "0"
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("Respond", mock.Anything, 7, 2, models.ConnectionAccepted).
		Return(models.Connection{ID: 7, RequesterID: 1, RecipientID: 2, Status: models.ConnectionAccepted}, nil).Once()

	_, err := cache.Respond(context.Background(), 7, 2, models.ConnectionAccepted)
	require.NoError(t, err)
	assert.NotContains(t, store.data, "connected:1:2")
	repo.AssertExpectations(t)
}

func TestRemoveInvalidatesPair(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	store.data["connected:1:2"] = "1"
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("Remove", mock.Anything, 7, 1).
		Return(models.Connection{ID: 7, RequesterID: 2, RecipientID: 1, Status: models.ConnectionAccepted}, nil).Once()

	_, err := cache.Remove(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.NotContains(t, store.data, "connected:1:2")
	repo.AssertExpectations(t)
}

func TestRespondErrorSkipsInvalidation(t *testing.T) {
	repo := new(mocks.ConnectionRepositoryMock)
	store := newFakeStore()
	store.data["connected:1:2"] = "0"
	cache := NewConnectionCache(repo, store, time.Minute)

	repo.On("Respond", mock.Anything, 7, 2, models.ConnectionAccepted).
		Return(models.Connection{}, errors.New("db down")).Once()

	_, err := cache.Respond(context.Background(), 7, 2, models.ConnectionAccepted)
	require.Error(t, err)
	assert.Contains(t, store.data, "connected:1:2")
}
