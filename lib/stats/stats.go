package stats

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the stats, as served by the api.
type Snapshot struct {
	Frames         uint64  `json:"frames"`
	FPS            uint64  `json:"fps"`
	FrameTimeMs    float64 `json:"frame_time_ms"`
	Uptime         float64 `json:"uptime"`
	ProgramReloads uint64  `json:"program_reloads"`
	GLVersion      string  `json:"gl_version"`
	WsClients      int     `json:"ws_clients"`
}

type Stats struct {
	current Snapshot

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	mu           sync.Mutex
}

func New() *Stats {
	s := &Stats{}
	s.start = time.Now()
	s.frameTimer = s.start
	return s
}

// Update is called once per presented frame with the time since the
// previous one.
func (s *Stats) Update(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Frames++
	s.frameCounter++
	if time.Since(s.frameTimer) > 1*time.Second {
		s.current.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = time.Now()
	}

	s.current.FrameTimeMs = float64(dt.Microseconds()) / 1e3
	s.current.Uptime = float64(time.Since(s.start).Nanoseconds()) / 1e9
}

func (s *Stats) ProgramReloaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.ProgramReloads++
}

func (s *Stats) SetGLVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.GLVersion = version
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.WsClients = n
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
