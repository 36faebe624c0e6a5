package bridge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vtodo/internal/bridge"
	"vtodo/internal/remote"
	"vtodo/internal/todo"
)

func TestManager_SetupUnload(t *testing.T) {
	host := todo.NewRegistry()
	m := bridge.NewManager(bridge.Options{Host: host}, nil)

	e, err := m.Setup(context.Background(), "a", newBackend())
	require.NoError(t, err)
	got, ok := m.Entry("a")
	require.True(t, ok)
	require.Same(t, e, got)

	_, err = m.Setup(context.Background(), "a", newBackend())
	require.Error(t, err)

	_, err = m.Setup(context.Background(), "b", newBackend())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, m.IDs())
	require.Equal(t, 4, host.Len())

	require.True(t, m.Unload("a"))
	require.False(t, m.Unload("a"))
	require.Equal(t, 2, host.Len())

	m.Close()
	require.Empty(t, m.IDs())
	require.Equal(t, 0, host.Len())
}

func TestManager_ReloadPicksUpNewProjects(t *testing.T) {
	host := todo.NewRegistry()
	m := bridge.NewManager(bridge.Options{Host: host}, nil)

	b := newBackend()
	_, err := m.Setup(context.Background(), "a", b)
	require.NoError(t, err)
	require.Equal(t, 2, host.Len())

	b.AddProject("3", "garden")
	e, err := m.Reload(context.Background(), "a", b)
	require.NoError(t, err)
	require.Len(t, e.Lists(), 3)
	require.Equal(t, 3, host.Len())
}

func TestManager_FailedReloadLeavesNothingLoaded(t *testing.T) {
	host := todo.NewRegistry()
	m := bridge.NewManager(bridge.Options{Host: host}, nil)
	_, err := m.Setup(context.Background(), "a", newBackend())
	require.NoError(t, err)

	bad := newBackend()
	bad.ListProjectsErr = remote.AuthError("list projects", 401)
	_, err = m.Reload(context.Background(), "a", bad)
	require.ErrorIs(t, err, bridge.ErrReauthRequired)

	_, ok := m.Entry("a")
	require.False(t, ok)
	require.Equal(t, 0, host.Len())
}

type countingScheduler struct {
	registered int
	stopped    int
}

func (s *countingScheduler) Every(ctx context.Context, interval time.Duration, fn func(context.Context)) func() {
	s.registered++
	return func() { s.stopped++ }
}

func TestManager_StartsAndStopsPolling(t *testing.T) {
	sched := &countingScheduler{}
	m := bridge.NewManager(bridge.Options{}, sched)

	e, err := m.Setup(context.Background(), "a", newBackend())
	require.NoError(t, err)
	require.Equal(t, 2, sched.registered)

	// Already started.
	e.Start(context.Background(), sched)
	require.Equal(t, 2, sched.registered)

	m.Close()
	require.Equal(t, 2, sched.stopped)

	// Unloaded entries never start again.
	e.Start(context.Background(), sched)
	require.Equal(t, 2, sched.registered)

}

func TestManager_SetIntervalAppliesOnReload(t *testing.T) {
	m := bridge.NewManager(bridge.Options{Interval: time.Minute}, nil)
	e, err := m.Setup(context.Background(), "a", newBackend())
	require.NoError(t, err)
	require.Equal(t, time.Minute, e.Lists()[0].Coordinator().Interval())

	m.SetInterval(time.Hour)
	e, err = m.Reload(context.Background(), "a", newBackend())
	require.NoError(t, err)
	require.Equal(t, time.Hour, e.Lists()[0].Coordinator().Interval())
}
