package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesPresented = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glbootstrap_frames_presented_total",
		Help: "Total number of frames swapped to the window",
	})
	FrameTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glbootstrap_frame_time_seconds",
		Help:    "Time between two presented frames",
		Buckets: []float64{1.0 / 240, 1.0 / 120, 1.0 / 60, 1.0 / 30, 1.0 / 15, 0.25, 1},
	})
	ShaderCompileFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glbootstrap_shader_compile_failures_total",
		Help: "Total number of shaders the driver refused to compile",
	}, []string{"stage"})
	ProgramLinks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glbootstrap_program_links_total",
		Help: "Total number of successfully linked programs",
	})
	ProgramLinkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glbootstrap_program_link_failures_total",
		Help: "Total number of programs the driver refused to link",
	})
	ProgramReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glbootstrap_program_reloads_total",
		Help: "Total number of program reload attempts by outcome",
	}, []string{"result"})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
