package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrgen/controller"
	"github.com/openclaw/qrgen/i18n"
	"github.com/openclaw/qrgen/render"
	"github.com/openclaw/qrgen/session"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func factory(t *testing.T) session.Factory {
	t.Helper()
	catalog, err := i18n.Load()
	require.NoError(t, err)
	return func(lang string) (*controller.Controller, error) {
		return controller.New(controller.Options{
			Renderer: render.NewPipeline(nil),
			Catalog:  catalog,
			Language: lang,
		})
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGetCreatesAndReuses(t *testing.T) {
	m := session.NewManager(factory(t), time.Hour, discard())
	defer m.Close()

	ctrl, id, created, err := m.Get("", "fr")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)
	assert.Equal(t, "fr", ctrl.Language())

	again, sameID, created, err := m.Get(id, "en")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, sameID)
	assert.Same(t, ctrl, again)
	assert.Equal(t, 1, m.Len())
}

func TestGetReplacesUnknownIDs(t *testing.T) {
	m := session.NewManager(factory(t), time.Hour, discard())
	defer m.Close()

	for _, id := range []string{"not-a-uuid", "7d9f1c2e-0a4b-4c1d-9e8f-123456789abc"} {
		_, sid, created, err := m.Get(id, "en")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, id, sid)
	}
	assert.Equal(t, 2, m.Len())
}

func TestGetFactoryError(t *testing.T) {
	boom := errors.New("boom")
	m := session.NewManager(func(string) (*controller.Controller, error) { return nil, boom }, 0, discard())

	_, _, _, err := m.Get("", "en")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := session.NewManager(factory(t), 10*time.Minute, discard())
	m.SetClock(clk.Now)
	defer m.Close()

	_, idle, _, err := m.Get("", "en")
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	_, active, _, err := m.Get("", "en")
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, _, created, err := m.Get(active, "en")
	require.NoError(t, err)
	assert.False(t, created)

	_, sid, created, err := m.Get(idle, "en")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, idle, sid)
}

func TestCloseRejectsNewSessions(t *testing.T) {
	m := session.NewManager(factory(t), time.Hour, discard())
	_, _, _, err := m.Get("", "en")
	require.NoError(t, err)

	m.Close()
	assert.Equal(t, 0, m.Len())

	_, _, _, err = m.Get("", "en")
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestSweepLoopStopsOnCancel(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	m := session.NewManager(factory(t), time.Minute, discard())
	m.SetClock(clk.Now)
	defer m.Close()

	_, _, _, err := m.Get("", "en")
	require.NoError(t, err)
	clk.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.StartSweepLoop(ctx, m, time.Second, discard())

	assert.Eventually(t, func() bool { return m.Len() == 0 }, 3*time.Second, 50*time.Millisecond)
}
