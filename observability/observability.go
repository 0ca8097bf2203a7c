// Package observability aggregates daemon counters and self-process
// health for the stats endpoint.
package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Counters are the cumulative operation totals since daemon start.
type Counters struct {
	Appends     uint64 `json:"appends"`
	Polls       uint64 `json:"polls"`
	Acks        uint64 `json:"acks"`
	Searches    uint64 `json:"searches"`
	Connections int64  `json:"connections"`
	TotalConns  uint64 `json:"total_connections"`
}

// Health is the latest self-process sample plus Go runtime numbers.
type Health struct {
	PID        int     `json:"pid"`
	Status     string  `json:"status"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	AllocMemMB uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
}

// Snapshot is what GET /debug/stats serves.
type Snapshot struct {
	StartedAt time.Time `json:"started_at"`
	UptimeSec int64     `json:"uptime_sec"`
	Counters  Counters  `json:"counters"`
	Health    Health    `json:"health"`
}

// Manager collects counters from the RPC handlers and health samples
// from the health worker. All counter paths are atomic, Snapshot is
// cheap enough to serve on every stats request.
type Manager struct {
	log       *slog.Logger
	startedAt time.Time

	appends    atomic.Uint64
	polls      atomic.Uint64
	acks       atomic.Uint64
	searches   atomic.Uint64
	conns      atomic.Int64
	totalConns atomic.Uint64

	mu     sync.RWMutex
	health Health
}

func NewManager(log *slog.Logger) *Manager {
	return &Manager{log: log, startedAt: time.Now().UTC()}
}

func (m *Manager) IncrAppends()  { m.appends.Add(1) }
func (m *Manager) IncrPolls()    { m.polls.Add(1) }
func (m *Manager) IncrAcks()     { m.acks.Add(1) }
func (m *Manager) IncrSearches() { m.searches.Add(1) }

func (m *Manager) ConnOpened() {
	m.conns.Add(1)
	m.totalConns.Add(1)
}

func (m *Manager) ConnClosed() {
	m.conns.Add(-1)
}

// SetHealth stores the latest process sample.
func (m *Manager) SetHealth(h Health) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health = h
}

// Snapshot assembles counters, the last health sample and fresh Go
// runtime numbers.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	health := m.health
	m.mu.RUnlock()

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	health.AllocMemMB = stats.Alloc / 1024 / 1024
	health.NumGC = stats.NumGC

	now := time.Now().UTC()
	return Snapshot{
		StartedAt: m.startedAt,
		UptimeSec: int64(now.Sub(m.startedAt).Seconds()),
		Counters: Counters{
			Appends:     m.appends.Load(),
			Polls:       m.polls.Load(),
			Acks:        m.acks.Load(),
			Searches:    m.searches.Load(),
			Connections: m.conns.Load(),
			TotalConns:  m.totalConns.Load(),
		},
		Health: health,
	}
}
