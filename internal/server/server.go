package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/heatrod/internal/config"
	"github.com/san-kum/heatrod/internal/heat"
	"github.com/san-kum/heatrod/internal/sim"
	"github.com/sirupsen/logrus"
)

// Limits on client-supplied runs.
const (
	MaxNodes = 10000
	MaxSteps = 100000
)

// Request selects the run a client wants streamed. Config wins over Preset;
// with neither the default plate run is used.
type Request struct {
	Boundary string          `json:"boundary"`
	Preset   string          `json:"preset"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Frame is one message to the client: a snapshot, the final summary or an
// error.
type Frame struct {
	Step  int       `json:"step,omitempty"`
	T     []float64 `json:"t,omitempty"`
	Done  bool      `json:"done,omitempty"`
	Steps int       `json:"steps,omitempty"`
	Error string    `json:"error,omitempty"`
}

type Server struct {
	addr     string
	interval time.Duration
	upgrader websocket.Upgrader
	log      *logrus.Logger

	mu    sync.Mutex
	pools map[int]*sim.SnapshotPool
}

func NewServer(addr string, interval time.Duration, log *logrus.Logger) *Server {
	return &Server{
		addr:     addr,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:   log,
		pools: make(map[int]*sim.SnapshotPool),
	}
}

// pool returns the frame pool shared by all streams with the given node count.
func (s *Server) pool(nodes int) *sim.SnapshotPool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[nodes]
	if !ok {
		p = sim.NewSnapshotPool(nodes)
		s.pools[nodes] = p
	}
	return p
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	s.log.WithField("addr", s.addr).Info("streaming temperature snapshots on /ws")
	return http.ListenAndServe(s.addr, s.Handler())
}

// serveWs handles one client: read a Request, stream its run, close.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req Request
	if err := conn.ReadJSON(&req); err != nil {
		s.log.WithError(err).Warn("bad request")
		return
	}

	cfg, err := resolve(req)
	if err == nil {
		err = checkLimits(cfg)
	}
	if err != nil {
		s.reject(conn, err)
		return
	}
	run, err := cfg.Build()
	if err != nil {
		s.reject(conn, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// Any further read, including a close frame, ends the stream.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	entry := s.log.WithFields(logrus.Fields{
		"boundary": run.Kind,
		"nodes":    run.Mesh.Nodes,
		"steps":    run.Parameter.Steps(),
	})
	entry.Info("stream started")

	var ticker *time.Ticker
	if s.interval > 0 {
		ticker = time.NewTicker(s.interval)
		defer ticker.Stop()
	}

	pool := s.pool(run.Mesh.Nodes)
	steps := 0
	for t := range run.Sequence() {
		steps++
		// JSON has no encoding for NaN or Inf.
		if !t.IsValid() {
			s.reject(conn, heat.SimError{Step: steps, Message: "invalid temperature (NaN/Inf)"})
			return
		}
		frame := pool.GetAndCopy(t)
		err := conn.WriteJSON(Frame{Step: steps, T: frame})
		pool.Put(frame)
		if err != nil {
			entry.WithError(err).Debug("client gone")
			return
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				entry.WithField("step", steps).Info("stream cancelled")
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}
	}

	if err := conn.WriteJSON(Frame{Done: true, Steps: steps}); err != nil {
		entry.WithError(err).Debug("client gone")
		return
	}
	entry.WithField("steps", steps).Info("stream finished")
}

func (s *Server) reject(conn *websocket.Conn, err error) {
	s.log.WithError(err).Warn("rejecting run")
	if werr := conn.WriteJSON(Frame{Error: err.Error()}); werr != nil {
		s.log.WithError(werr).Debug("client gone")
	}
}

// checkLimits runs before Build so an oversized mesh is never allocated.
func checkLimits(cfg *config.Config) error {
	if cfg.Mesh.Nodes > MaxNodes {
		return fmt.Errorf("%w: %d nodes exceeds the limit of %d", heat.ErrInvalidConfiguration, cfg.Mesh.Nodes, MaxNodes)
	}
	if n := cfg.SimulationParameter().Steps(); n > MaxSteps {
		return fmt.Errorf("%w: %d steps exceeds the limit of %d", heat.ErrInvalidConfiguration, n, MaxSteps)
	}
	return nil
}

func resolve(req Request) (*config.Config, error) {
	if len(req.Config) > 0 {
		cfg := config.DefaultConfig()
		if err := json.Unmarshal(req.Config, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		return cfg, nil
	}
	if req.Preset == "" {
		cfg := config.DefaultConfig()
		if req.Boundary != "" {
			cfg.Boundary.Kind = req.Boundary
		}
		return cfg, nil
	}
	kind := req.Boundary
	if kind == "" {
		kind = config.BoundaryDirichlet
	}
	cfg := config.GetPreset(kind, req.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %s/%s (available: %v)", kind, req.Preset, config.ListPresets(kind))
	}
	return cfg, nil
}
