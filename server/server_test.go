package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestNew_NonexistentDirectory(t *testing.T) {
	_, err := New(Options{
		Port: 0,
		Dir:  filepath.Join(t.TempDir(), "does-not-exist"),
	}, nopLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNew_FileInsteadOfDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := New(Options{Port: 0, Dir: path}, nopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestNew_MissingFeedFileIsOnlyAWarning(t *testing.T) {
	s, err := New(Options{
		Port:     0,
		Dir:      t.TempDir(),
		FeedFile: "notion_reading_list.xml",
	}, nopLogger())

	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestStart_PortAlreadyInUse(t *testing.T) {
	// Occupy a port first.
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	s, err := New(Options{Port: port, Dir: t.TempDir()}, nopLogger())
	require.NoError(t, err)

	err = s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
	assert.Contains(t, err.Error(), fmt.Sprintf("--port %d", port+1))
}

func TestServe_ServesFeedFileUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	feedBody := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title></channel></rss>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feed.xml"), []byte(feedBody), 0o644))

	s, err := New(Options{Port: 0, Dir: dir, FeedFile: "feed.xml"}, nopLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx)
	}()

	resp, err := http.Get("http://" + s.Addr() + "/feed.xml")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, feedBody, string(body))

	// Cancelling the context is a clean stop.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServe_UnknownPathIs404(t *testing.T) {
	s, err := New(Options{Port: 0, Dir: t.TempDir()}, nopLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Serve(ctx) }()

	resp, err := http.Get("http://" + s.Addr() + "/missing.xml")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
