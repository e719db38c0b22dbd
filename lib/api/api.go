package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	_ "github.com/fosdem/glbootstrap/lib/api/docs"
	"github.com/fosdem/glbootstrap/lib/config"
	"github.com/fosdem/glbootstrap/lib/metrics"
	"github.com/fosdem/glbootstrap/lib/session"
	"github.com/fosdem/glbootstrap/lib/stats"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate go tool swag init -g api.go -o docs --outputTypes go

// @title			glbootstrap API
// @version		1.0
// @description	Control and inspect a running glbootstrap window.
// @BasePath		/
type Api struct {
	srv     http.Server
	mux     *http.ServeMux
	cfg     *config.Config
	session *session.Session

	Stats *stats.Stats

	wsClients map[*wsClient]bool
	wsMutex   sync.Mutex

	addr     net.Addr
	serveErr chan error
}

func New(cfg *config.Config, s *session.Session, st *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.session = s
	a.Stats = st
	a.srv.Addr = cfg.Api.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*wsClient]bool)
	a.serveErr = make(chan error, 1)

	s.AddEventListener(session.EventProgramReloaded, func(_ *session.Session, data interface{}) {
		a.broadcast(data)
	})
	s.AddEventListener(session.EventQuit, func(_ *session.Session, data interface{}) {
		a.broadcast(data)
	})

	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.Api.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("POST /api/kill", a.suicide)
	a.mux.HandleFunc("POST /api/reload", a.reload)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/config", a.handleConfig)
	a.mux.HandleFunc("GET /api/ws", a.handleWebsocket)
	a.mux.Handle("GET /metrics", metrics.Handler())
	a.mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve serves the api on l until Shutdown is called.
func (a *Api) Serve(l net.Listener) error {
	err := a.srv.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Addr is the address bound by ServeInBackground.
func (a *Api) Addr() net.Addr {
	return a.addr
}

// Err returns the error the background server stopped with, if any.
func (a *Api) Err() error {
	select {
	case err := <-a.serveErr:
		a.serveErr <- err
		return err
	default:
		return nil
	}
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Close the window and exit
// @Router		/api/kill [post]
// @Tags		control
// @Produce	json
// @Success	200	{string}	string	"ok"
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	a.session.RequestShutdown("api request")
	a.writeOK(w)
}

// @Summary	Recompile and relink the shader program
// @Description	The reload happens on the render thread before the next frame. A failed reload keeps the previous program.
// @Router		/api/reload [post]
// @Tags		control
// @Produce	json
// @Success	202	{string}	string	"ok"
func (a *Api) reload(w http.ResponseWriter, _ *http.Request) {
	a.session.RequestReload("api request")
	w.WriteHeader(http.StatusAccepted)
	a.writeOK(w)
}

// @Summary	Get render statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

type ShaderInfo struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`
	Watch bool   `json:"watch"`
}

type Config struct {
	Title   string       `json:"title"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	GL      string       `json:"gl"`
	Samples int          `json:"samples"`
	Shaders []ShaderInfo `json:"shaders"`
}

// @Summary	Get the window and shader configuration
// @Router		/api/config [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	Config
func (a *Api) handleConfig(w http.ResponseWriter, _ *http.Request) {
	win := a.cfg.Window
	result := &Config{
		Title:   win.Title,
		Width:   win.Width,
		Height:  win.Height,
		GL:      fmt.Sprintf("%d.%d core", win.GL.Major, win.GL.Minor),
		Samples: win.GL.Samples,
		Shaders: []ShaderInfo{},
	}
	for _, s := range a.cfg.Shaders {
		result.Shaders = append(result.Shaders, ShaderInfo{
			Path:  string(s.Path),
			Stage: s.Stage.String(),
			Watch: s.Watch,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(result)
	if err != nil {
		http.Error(w, fmt.Sprintf("couldn't encode config: %s", err), http.StatusInternalServerError)
		return
	}
}

func (a *Api) writeOK(w http.ResponseWriter) {
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log("could not write response: %s", err)
	}
}

func (a *Api) log(msg string, args ...interface{}) {
	slog.Info(fmt.Sprintf(msg, args...), slog.String("module", "api"))
}

// ServeInBackground binds the configured address and serves the api on
// it from a goroutine. Bind errors are returned to the caller. It returns
// nil, nil when the config has no api section.
func ServeInBackground(cfg *config.Config, s *session.Session, st *stats.Stats) (*Api, error) {
	if cfg.Api == nil {
		return nil, nil
	}

	l, err := net.Listen("tcp", cfg.Api.Bind)
	if err != nil {
		return nil, fmt.Errorf("could not start web server: %w", err)
	}
	theApi := New(cfg, s, st)
	theApi.addr = l.Addr()

	theApi.log("web server listening on %s", l.Addr())
	go func() {
		err := theApi.Serve(l)
		if err != nil {
			slog.Error(fmt.Sprintf("web server stopped: %s", err), slog.String("module", "api"))
			theApi.serveErr <- fmt.Errorf("web server stopped: %w", err)
			s.RequestShutdown("web server failed")
		}
	}()
	return theApi, nil
}
