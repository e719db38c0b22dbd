package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fosdem/glbootstrap/lib/config"
	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
	"github.com/fosdem/glbootstrap/lib/session"
	"github.com/fosdem/glbootstrap/lib/stats"
	"github.com/gorilla/websocket"
)

func newTestApi(t *testing.T) (*Api, *session.Session) {
	t.Helper()
	cfg := config.Default()
	cfg.Api = &config.ApiCfg{Bind: "127.0.0.1:0"}
	cfg.Shaders = []*config.ShaderCfg{
		{Path: "/shaders/a.vert", Stage: shaders.VertexStage, Watch: true},
	}
	s := session.New()
	return New(cfg, s, stats.New()), s
}

func do(t *testing.T, a *Api, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestKill(t *testing.T) {
	a, s := newTestApi(t)

	if rec := do(t, a, http.MethodGet, "/api/kill"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected GET to be rejected, got %d", rec.Code)
	}
	if s.ShutdownRequested() {
		t.Fatal("GET must not kill")
	}

	rec := do(t, a, http.MethodPost, "/api/kill")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !s.ShutdownRequested() {
		t.Error("expected shutdown to be requested")
	}
}

func TestReload(t *testing.T) {
	a, s := newTestApi(t)

	rec := do(t, a, http.MethodPost, "/api/reload")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if !s.TakeReload() {
		t.Error("expected reload to be requested")
	}
}

func TestStats(t *testing.T) {
	a, _ := newTestApi(t)
	a.Stats.Update(16 * time.Millisecond)
	a.Stats.SetGLVersion("4.3")

	rec := do(t, a, http.MethodGet, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap stats.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Frames != 1 || snap.GLVersion != "4.3" {
		t.Errorf("unexpected stats %+v", snap)
	}
}

func TestConfig(t *testing.T) {
	a, _ := newTestApi(t)

	rec := do(t, a, http.MethodGet, "/api/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cfg Config
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "OpenGL" || cfg.Width != 800 || cfg.Height != 600 || cfg.GL != "4.3 core" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.Shaders) != 1 || cfg.Shaders[0].Stage != "vertex" || !cfg.Shaders[0].Watch {
		t.Errorf("unexpected shaders %+v", cfg.Shaders)
	}
}

func TestMetrics(t *testing.T) {
	a, _ := newTestApi(t)

	rec := do(t, a, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "glbootstrap_frames_presented_total") {
		t.Error("expected glbootstrap metrics to be exported")
	}
}

func TestSwaggerDoc(t *testing.T) {
	a, _ := newTestApi(t)

	rec := do(t, a, http.MethodGet, "/swagger/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/reload") {
		t.Error("expected the reload endpoint to be documented")
	}
}

func TestProfilerDisabled(t *testing.T) {
	a, _ := newTestApi(t)

	if rec := do(t, a, http.MethodGet, "/prof"); rec.Code != http.StatusNotFound {
		t.Errorf("expected profiler to be disabled, got %d", rec.Code)
	}
}

func TestWebsocket(t *testing.T) {
	a, s := newTestApi(t)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}

	var snap stats.Snapshot
	if err := ws.ReadJSON(&snap); err != nil {
		t.Fatalf("expected an initial stats packet: %v", err)
	}

	s.RequestShutdown("test")
	for {
		var ev map[string]interface{}
		if err := ws.ReadJSON(&ev); err != nil {
			t.Fatalf("expected a quit event: %v", err)
		}
		if ev["Event"] == session.EventQuit {
			if ev["Reason"] != "test" {
				t.Errorf("unexpected quit event %v", ev)
			}
			return
		}
	}
}

func TestServeInBackgroundWithoutApi(t *testing.T) {
	a, err := ServeInBackground(config.Default(), session.New(), stats.New())
	if err != nil || a != nil {
		t.Fatalf("expected no api and no error, got %v, %v", a, err)
	}
}

func TestServeInBackground(t *testing.T) {
	cfg := config.Default()
	cfg.Api = &config.ApiCfg{Bind: "127.0.0.1:0"}
	s := session.New()

	a, err := ServeInBackground(cfg, s, stats.New())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get("http://" + a.Addr().String() + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := a.Err(); err != nil {
		t.Errorf("clean shutdown reported %v", err)
	}
	if s.ShutdownRequested() {
		t.Error("clean shutdown must not request a quit")
	}
}

func TestServeInBackgroundAddressInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	cfg := config.Default()
	cfg.Api = &config.ApiCfg{Bind: taken.Addr().String()}
	s := session.New()

	a, err := ServeInBackground(cfg, s, stats.New())
	if err == nil {
		a.Shutdown(context.Background())
		t.Fatal("expected a bind error")
	}
	if a != nil {
		t.Error("expected no api on bind error")
	}
	if s.ShutdownRequested() {
		t.Error("bind error must be returned, not turned into a quit")
	}
}
