package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spawnkit/internal/model"
)

func newTestManager(t *testing.T, host Host) *Manager {
	t.Helper()
	mgr, err := NewManager(host, nil, 1)
	require.NoError(t, err)
	mgr.SetDiagnostics(&recordingDiagnostics{})
	return mgr
}

func TestManager_AddAndGet(t *testing.T) {
	mgr := newTestManager(t, newMockHost())

	c, err := mgr.Add(testConfig("wolves", "wolf"))
	require.NoError(t, err)
	assert.True(t, c.Active(), "Add activates the controller")

	got, ok := mgr.Get("wolves")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, mgr.Count())

	_, ok = mgr.Get("missing")
	assert.False(t, ok)
}

func TestManager_AddDuplicate(t *testing.T) {
	mgr := newTestManager(t, newMockHost())

	_, err := mgr.Add(testConfig("dup", "a"))
	require.NoError(t, err)

	_, err = mgr.Add(testConfig("dup", "b"))
	assert.ErrorIs(t, err, ErrDuplicateSpawner)
	assert.Equal(t, 1, mgr.Count())
}

func TestManager_LoadSkipsInvalid(t *testing.T) {
	mgr := newTestManager(t, newMockHost())

	bad := testConfig("bad", "a")
	bad.Capacity = 0

	repo := StaticRepository{
		testConfig("first", "a"),
		bad,
		testConfig("second", "b"),
	}

	err := mgr.Load(context.Background(), repo)

	assert.ErrorIs(t, err, model.ErrInvalidCapacity)
	assert.Equal(t, 2, mgr.Count())
	_, ok := mgr.Get("second")
	assert.True(t, ok, "spawners after the invalid one still load")
}

func TestManager_StepAll(t *testing.T) {
	host := newMockHost()
	mgr := newTestManager(t, host)

	batch := testConfig("batch", "a")
	batch.SpawnAllAtOnce = true
	batch.Capacity = 4

	trickle := testConfig("trickle", "b")
	trickle.Interval = 0
	trickle.Capacity = 2

	require.NoError(t, mgr.Load(context.Background(), StaticRepository{batch, trickle}))
	require.Equal(t, 2, mgr.ActiveCount())

	mgr.StepAll(0.1) // batch fires, trickle gate opens
	assert.Equal(t, 4, mgr.LiveCount())
	assert.Equal(t, 1, mgr.ActiveCount())

	mgr.StepAll(0.1) // trickle spawns
	assert.Equal(t, 5, mgr.LiveCount())
}

func TestManager_Remove(t *testing.T) {
	host := newMockHost()
	mgr := newTestManager(t, host)

	cfg := testConfig("gone", "a")
	cfg.Interval = 0
	_, err := mgr.Add(cfg)
	require.NoError(t, err)

	assert.True(t, mgr.Remove("gone"))
	assert.False(t, mgr.Remove("gone"))

	mgr.StepAll(0.1)
	mgr.StepAll(0.1)
	assert.Empty(t, host.calls)
	assert.Zero(t, mgr.Count())
}

func TestManager_SeedIsReproducible(t *testing.T) {
	run := func() []spawnCall {
		host := newMockHost()
		mgr := newTestManager(t, host)

		cfg := testConfig("seeded", "a", "b", "c")
		cfg.SpawnAllAtOnce = true
		cfg.SpawnInOrder = false
		cfg.Capacity = 8
		cfg.RandomLocation = model.AxisFlags{X: true, Y: true}

		_, err := mgr.Add(cfg)
		require.NoError(t, err)
		mgr.StepAll(0.1)
		return host.calls
	}

	assert.Equal(t, run(), run())
}

func TestManager_RunUntilCanceled(t *testing.T) {
	mgr := newTestManager(t, newMockHost())

	cfg := testConfig("run", "a")
	cfg.SpawnAllAtOnce = true
	cfg.Capacity = 3
	_, err := mgr.Add(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Run(ctx, time.Millisecond)
	}()

	require.Eventually(t, func() bool { return mgr.LiveCount() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManager_Stop(t *testing.T) {
	mgr := newTestManager(t, newMockHost())

	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Run(context.Background(), time.Millisecond)
	}()

	mgr.Stop()
	mgr.Stop() // second stop is a no-op

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestStaticRepository_LoadAllReturnsCopy(t *testing.T) {
	repo := StaticRepository{testConfig("a", "x")}

	got, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	got[0].ID = "changed"

	assert.Equal(t, "a", repo[0].ID)
}
