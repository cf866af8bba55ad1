package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/pkg/models"
)

type mapKV struct {
	data map[string][]byte
	err  error
}

func (m *mapKV) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *mapKV) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func fixedNow() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }

func TestStores(t *testing.T) {
	redisStore := NewRedisStore(&mapKV{data: map[string][]byte{}})
	redisStore.now = fixedNow
	memStore := NewMemoryStore()
	memStore.now = fixedNow

	stores := map[string]Store{"redis": redisStore, "memory": memStore}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "professional", s.Tone)
			assert.True(t, s.UpdatedAt.IsZero())

			s.Profile.FullName = "Ada Lovelace"
			s.Tone = "concise"
			s.AutoAnalyze = true
			saved, err := store.Save(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, fixedNow(), saved.UpdatedAt)

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Ada Lovelace", loaded.Profile.FullName)
			assert.Equal(t, "concise", loaded.Tone)
			assert.True(t, loaded.AutoAnalyze)
		})
	}
}

func TestRedisStore_Errors(t *testing.T) {
	store := NewRedisStore(&mapKV{data: map[string][]byte{}, err: errors.New("connection refused")})

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "load settings")

	_, err = store.Save(context.Background(), models.DefaultSettings())
	assert.ErrorContains(t, err, "save settings")
}
