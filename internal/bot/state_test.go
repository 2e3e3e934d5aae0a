package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"forfriends-bot/internal/flow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data map[string][]byte
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	f.data[key] = data
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestStateStorageRoundTrip(t *testing.T) {
	storage := NewStateStorage(&fakeKV{data: map[string][]byte{}}, time.Hour)
	ctx := context.Background()

	state, err := storage.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, state.Active(), "missing state reads back as idle")

	saved := flow.State{
		Kind:      flow.KindRegister,
		Step:      2,
		Collected: map[string]string{flow.FieldName: "Alice", flow.FieldBirthDate: "15.06.1990"},
	}
	require.NoError(t, storage.Save(ctx, 1, saved))

	state, err = storage.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, saved, state)

	require.NoError(t, storage.Clear(ctx, 1))
	state, err = storage.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, state.Active())
}

func TestChatLocksSerializePerChat(t *testing.T) {
	locks := newChatLocks()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock(1)
			defer locks.Unlock(1)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}
