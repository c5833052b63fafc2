package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recipe-plaza/internal/core/recipe/state"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testManager(maxSize int) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(config.SessionConfig{
		MaxSize:         maxSize,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	}, clock.Now)
	return m, clock
}

func TestManager_CreateGetPut(t *testing.T) {
	m, _ := testManager(10)

	id := m.Create(state.Initial())
	require.NotEmpty(t, id)

	s, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, 50, s.MinCalories)

	s.Query = "soup"
	require.NoError(t, m.Put(id, s))

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "soup", got.Query)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)
}

func TestManager_Expiry(t *testing.T) {
	m, clock := testManager(10)
	id := m.Create(state.Initial())

	clock.Advance(59 * time.Second)
	_, ok := m.Get(id)
	require.True(t, ok, "access should extend ttl")

	clock.Advance(59 * time.Second)
	_, ok = m.Get(id)
	require.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Stats().Size)
}

func TestManager_PutUnknown(t *testing.T) {
	m, _ := testManager(10)
	err := m.Put("missing", state.Initial())
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestManager_EvictsLeastUsed(t *testing.T) {
	m, clock := testManager(2)

	first := m.Create(state.Initial())
	clock.Advance(time.Second)
	second := m.Create(state.Initial())

	// first 被存取過，second 應被淘汰
	_, ok := m.Get(first)
	require.True(t, ok)

	clock.Advance(time.Second)
	third := m.Create(state.Initial())

	_, ok = m.Get(second)
	assert.False(t, ok)
	_, ok = m.Get(first)
	assert.True(t, ok)
	_, ok = m.Get(third)
	assert.True(t, ok)
	assert.Equal(t, int64(1), m.Stats().Evictions)
}

func TestManager_CleanupExpiredBeforeEvicting(t *testing.T) {
	m, clock := testManager(2)

	a := m.Create(state.Initial())
	b := m.Create(state.Initial())
	clock.Advance(2 * time.Minute)

	c := m.Create(state.Initial())
	_, okA := m.Get(a)
	_, okB := m.Get(b)
	_, okC := m.Get(c)
	assert.False(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestManager_DeleteAndClose(t *testing.T) {
	m, _ := testManager(10)
	id := m.Create(state.Initial())

	assert.True(t, m.Delete(id))
	assert.False(t, m.Delete(id))

	m.Create(state.Initial())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Stats().Size)
}
