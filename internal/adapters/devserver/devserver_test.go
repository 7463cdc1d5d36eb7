package devserver_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/adapters/devserver"
	"go.trai.ch/plume/internal/adapters/metrics"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"),
		[]byte("<html><body><h1>hi</h1></body></html>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "css"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "css", "main.css"),
		[]byte("body{color:red}"), 0o600))
	return root
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandler_InjectsScriptIntoHTML(t *testing.T) {
	srv := devserver.New(writeSite(t), "localhost", 0, devserver.NewHub(nil))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		`<html><body><h1>hi</h1><script src="/__plume/livereload.js"></script></body></html>`,
		body)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestHandler_LeavesPartialResponsesAlone(t *testing.T) {
	const page = "<html><body><h1>hi</h1></body></html>"
	h := devserver.New(writeSite(t), "localhost", 0, devserver.NewHub(nil)).Handler()

	head := httptest.NewRecorder()
	h.ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/", http.NoBody))
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())
	assert.Equal(t, strconv.Itoa(len(page)), head.Header().Get("Content-Length"))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Range", "bytes=0-5")
	partial := httptest.NewRecorder()
	h.ServeHTTP(partial, req)
	assert.Equal(t, http.StatusPartialContent, partial.Code)
	assert.Equal(t, "<html>", partial.Body.String())
}

func TestHandler_ServesAssetsUnchanged(t *testing.T) {
	srv := devserver.New(writeSite(t), "localhost", 0, devserver.NewHub(nil))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/assets/css/main.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{color:red}", body)

	resp, body = get(t, ts.URL+"/missing.html")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, devserver.ScriptPath)
}

func TestHandler_ServesClientScript(t *testing.T) {
	srv := devserver.New(t.TempDir(), "localhost", 0, devserver.NewHub(nil))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+devserver.ScriptPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/javascript")
	assert.Contains(t, body, devserver.EventsPath)
}

func TestHandler_Metrics(t *testing.T) {
	prom := metrics.NewPrometheus()
	hub := devserver.NewHub(prom)
	srv := devserver.New(t.TempDir(), "localhost", 0, hub, devserver.WithMetrics(prom.Handler()))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	hub.Broadcast(domain.NewReloadEvent(domain.KindJS, []string{"dest/assets/js/app.js"}, "01"))

	resp, body := get(t, ts.URL+devserver.MetricsPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `plume_reload_broadcasts_total{kind="js",mode="reload"} 1`)
	assert.Contains(t, body, "plume_livereload_clients 0")
}

func TestHandler_NoMetricsRouteWithoutHandler(t *testing.T) {
	srv := devserver.New(t.TempDir(), "localhost", 0, devserver.NewHub(nil))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, _ := get(t, ts.URL+devserver.MetricsPath)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHub_StreamsEvents(t *testing.T) {
	hub := devserver.NewHub(nil)
	srv := devserver.New(t.TempDir(), "localhost", 0, hub)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+devserver.EventsPath, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	event := domain.NewReloadEvent(domain.KindCSS, []string{"dest/assets/css/main.css"}, "abc")
	assert.Equal(t, 1, hub.Broadcast(event))

	var data string
	for !strings.HasPrefix(data, "data: ") {
		data, err = reader.ReadString('\n')
		require.NoError(t, err)
	}

	var got domain.ReloadEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(data), "data: ")), &got))
	assert.Equal(t, event, got)
	assert.Equal(t, domain.ReloadInject, got.Mode)
}

func TestHub_DropsDuplicateHashes(t *testing.T) {
	hub := devserver.NewHub(nil)
	c := hub.Connect()
	require.NotNil(t, c)

	event := domain.NewReloadEvent(domain.KindHTML, []string{"dest/index.html"}, "h1")
	assert.Equal(t, 1, hub.Broadcast(event))
	assert.Equal(t, 0, hub.Broadcast(event))
	assert.Len(t, c.Messages(), 1)

	event.Hash = "h2"
	assert.Equal(t, 1, hub.Broadcast(event))
	assert.Len(t, c.Messages(), 2)
}

func TestHub_DisconnectsSlowClients(t *testing.T) {
	hub := devserver.NewHub(nil)
	slow := hub.Connect()
	require.NotNil(t, slow)

	for i := range 8 {
		hub.Broadcast(domain.NewReloadEvent(domain.KindJS, nil, string(rune('a'+i))))
	}
	assert.Equal(t, 1, hub.Len())

	assert.Equal(t, 0, hub.Broadcast(domain.NewReloadEvent(domain.KindJS, nil, "overflow")))
	assert.Equal(t, 0, hub.Len())

	select {
	case <-slow.Done():
	default:
		t.Fatal("slow client was not disconnected")
	}
}

func TestHub_ReportsClientCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMetrics(ctrl)

	gomock.InOrder(
		m.EXPECT().SetClients(1),
		m.EXPECT().SetClients(2),
		m.EXPECT().SetClients(1),
		m.EXPECT().ObserveReload("css", "inject"),
		m.EXPECT().SetClients(0),
	)

	hub := devserver.NewHub(m)
	a := hub.Connect()
	b := hub.Connect()
	hub.Disconnect(a)
	hub.Disconnect(a)
	hub.Reload(domain.NewReloadEvent(domain.KindCSS, nil, "x"))
	hub.Shutdown()
	hub.Shutdown()

	assert.Nil(t, hub.Connect())
	<-b.Done()
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	hub := devserver.NewHub(nil)
	srv := devserver.New(writeSite(t), "127.0.0.1", 0, hub)

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, _ := get(t, "http://"+ln.Addr().String()+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Nil(t, hub.Connect())
}

func TestServer_ListenFailure(t *testing.T) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port
	srv := devserver.New(t.TempDir(), "127.0.0.1", port, devserver.NewHub(nil))
	err = srv.ListenAndServe(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrServerFailed.Error())
}

func TestServer_Reload(t *testing.T) {
	hub := devserver.NewHub(nil)
	srv := devserver.New(t.TempDir(), "localhost", 3000, hub)
	assert.Equal(t, "localhost:3000", srv.Addr())
	assert.Same(t, hub, srv.Hub())

	c := hub.Connect()
	srv.Reload(domain.NewReloadEvent(domain.KindFonts, nil, "f"))
	assert.Len(t, c.Messages(), 1)
}
