package net

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	return data
}

func TestSnapshotBeforeFirstFrame(t *testing.T) {
	srv := httptest.NewServer(NewHub().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSnapshotServesLatestFrame(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Publish([]byte("one"))
	hub.Publish([]byte("two"))

	resp, err := http.Get(srv.URL + "/snapshot.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "two", string(body))
}

func TestLiveViewerGetsLatestThenUpdates(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Publish([]byte("first"))
	conn := dialLive(t, srv)
	assert.Equal(t, "first", string(readFrame(t, conn)))
	assert.Equal(t, 1, hub.Viewers())

	hub.Publish([]byte("second"))
	assert.Equal(t, "second", string(readFrame(t, conn)))
}

func TestViewerRemovedOnDisconnect(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Publish([]byte("x"))
	conn := dialLive(t, srv)
	readFrame(t, conn)
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Viewers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestEnqueueDropsOldest(t *testing.T) {
	ch := make(chan []byte, 2)
	enqueue(ch, []byte("a"))
	enqueue(ch, []byte("b"))
	enqueue(ch, []byte("c"))
	assert.Equal(t, "b", string(<-ch))
	assert.Equal(t, "c", string(<-ch))
}

func TestServeStopsWithContext(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, 0, hub) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestShareLink(t *testing.T) {
	link := ShareLink(8888)
	assert.True(t, strings.HasPrefix(link, "http://"), link)
	assert.True(t, strings.HasSuffix(link, ":8888/snapshot.png"), link)
	assert.NotNil(t, OutgoingIP().To4())
}
