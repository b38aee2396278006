package launch

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListenSkipsBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	ln, err := Listen("127.0.0.1", port, 10, quiet())
	if err != nil && strings.Contains(err.Error(), "no free port") {
		t.Skip("no free port next to the busy one")
	}
	require.NoError(t, err)
	defer ln.Close()

	got := ln.Addr().(*net.TCPAddr).Port
	assert.Greater(t, got, port)
	assert.LessOrEqual(t, got, port+9)
}

func TestListenGivesUpAfterAttempts(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	_, err = Listen("127.0.0.1", port, 1, quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no free port")
}

func TestListenEphemeral(t *testing.T) {
	ln, err := Listen("127.0.0.1", 0, 5, quiet())
	require.NoError(t, err)
	defer ln.Close()

	assert.NotZero(t, ln.Addr().(*net.TCPAddr).Port)
	assert.True(t, strings.HasPrefix(URL(ln), "http://localhost:"))
}

func TestOpenBrowser(t *testing.T) {
	orig := openURL
	defer func() { openURL = orig }()

	var opened string
	openURL = func(u string) error {
		opened = u
		return nil
	}
	assert.True(t, OpenBrowser("http://localhost:3000", quiet()))
	assert.Equal(t, "http://localhost:3000", opened)

	openURL = func(string) error { return errors.New("no display") }
	assert.False(t, OpenBrowser("http://localhost:3000", quiet()))
}
