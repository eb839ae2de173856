package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateStoresToken(t *testing.T) {
	mgr, store := newTestManager()

	token, err := mgr.Generate(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, token, store.data["session:access:access-1"])
}

func TestRotateIssuesNewSession(t *testing.T) {
	mgr, store := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-1")
	require.NoError(t, err)

	newID, newToken, err := mgr.Rotate(ctx, "access-1", token)
	require.NoError(t, err)
	assert.NotEqual(t, "access-1", newID)
	assert.NotEqual(t, token, newToken)

	_, hasOld := store.data["session:access:access-1"]
	assert.False(t, hasOld, "old session should be deleted")
	assert.Equal(t, newToken, store.data["session:access:"+newID])
}

func TestRotateRejectsWrongToken(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	_, err := mgr.Generate(ctx, "access-1")
	require.NoError(t, err)

	_, _, err = mgr.Rotate(ctx, "access-1", "forged")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestHasSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	ok, err := mgr.HasSession(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = mgr.Generate(ctx, "access-2")
	require.NoError(t, err)

	ok, err = mgr.HasSession(ctx, "access-2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mgr.Revoke(ctx, "access-2"))
	ok, err = mgr.HasSession(ctx, "access-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
