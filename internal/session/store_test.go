package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data      map[string][]byte
	deadlines map[string]time.Time
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		data:      make(map[string][]byte),
		deadlines: make(map[string]time.Time),
	}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	f.data[key] = data
	if ttl > 0 {
		f.deadlines[key] = time.Now().Add(ttl)
	}
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		delete(f.deadlines, key)
	}
	return nil
}

func (f *fakeKV) TTL(_ context.Context, key string) (time.Duration, error) {
	deadline, ok := f.deadlines[key]
	if !ok {
		return 0, nil
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func TestCustomerIDRoundTrip(t *testing.T) {
	store := NewStore(newFakeKV())
	ctx := context.Background()

	got, err := store.CustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got, "unauthenticated chat has no customer id")

	require.NoError(t, store.SetCustomerID(ctx, 1, "c-123"))

	got, err = store.CustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "c-123", got)
}

func TestClearCustomerRemovesBothKeys(t *testing.T) {
	store := NewStore(newFakeKV())
	ctx := context.Background()

	require.NoError(t, store.SetCustomerID(ctx, 1, "c-123"))
	require.NoError(t, store.SetCookies(ctx, 1, []*http.Cookie{{Name: "sessionid", Value: "abc"}}))

	require.NoError(t, store.ClearCustomer(ctx, 1))

	id, err := store.CustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, id)

	cookies, err := store.Cookies(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestCookiesRoundTrip(t *testing.T) {
	store := NewStore(newFakeKV())
	ctx := context.Background()

	cookies, err := store.Cookies(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, cookies)

	in := []*http.Cookie{
		{Name: "sessionid", Value: "abc"},
		{Name: "csrftoken", Value: "xyz"},
	}
	require.NoError(t, store.SetCookies(ctx, 9, in))

	out, err := store.Cookies(ctx, 9)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "sessionid", out[0].Name)
	assert.Equal(t, "abc", out[0].Value)
	assert.Equal(t, "csrftoken", out[1].Name)
	assert.Equal(t, "xyz", out[1].Value)
}

func TestSessionsAreKeyedPerChat(t *testing.T) {
	store := NewStore(newFakeKV())
	ctx := context.Background()

	require.NoError(t, store.SetCustomerID(ctx, 1, "c-1"))
	require.NoError(t, store.SetCustomerID(ctx, 2, "c-2"))

	got, err := store.CustomerID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "c-2", got)

	require.NoError(t, store.ClearCustomer(ctx, 2))
	got, err = store.CustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "c-1", got, "clearing one chat must not touch another")
}

func TestResendCooldown(t *testing.T) {
	store := NewStore(newFakeKV())
	ctx := context.Background()

	remaining, err := store.ResendRemaining(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, remaining, "no cooldown armed means resend allowed")

	require.NoError(t, store.SetResendDeadline(ctx, 1, time.Minute))

	remaining, err = store.ResendRemaining(ctx, 1)
	require.NoError(t, err)
	assert.Greater(t, remaining, 50*time.Second)
}
