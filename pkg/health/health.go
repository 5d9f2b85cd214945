package health

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Name        string      `json:"name"`
	Status      Status      `json:"status"`
	Description string      `json:"description,omitempty"`
	LastChecked time.Time   `json:"last_checked"`
	Details     interface{} `json:"details,omitempty"`
}

// HostStats carries machine-level metrics sampled on demand
type HostStats struct {
	HostUptime      uint64  `json:"host_uptime_seconds,omitempty"`
	TotalMemoryMB   uint64  `json:"total_memory_mb,omitempty"`
	UsedMemoryPct   float64 `json:"used_memory_percent,omitempty"`
	ProcessMemoryMB uint64  `json:"process_memory_mb"`
}

// ServerHealth represents overall server health
type ServerHealth struct {
	Status         Status            `json:"status"`
	Uptime         int64             `json:"uptime_seconds"`
	Timestamp      time.Time         `json:"timestamp"`
	Rooms          int               `json:"rooms"`
	Connections    int               `json:"connections"`
	Goroutines     int               `json:"goroutines"`
	Host           HostStats         `json:"host"`
	Components     []ComponentHealth `json:"components"`
}

// Monitor tracks server health metrics
type Monitor struct {
	startTime  time.Time
	mu         sync.RWMutex
	components map[string]*ComponentHealth
}

// NewMonitor creates a new health monitor
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:  time.Now(),
		components: make(map[string]*ComponentHealth),
	}
}

// SetComponentStatus updates the status of a component
func (m *Monitor) SetComponentStatus(name string, status Status, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[name] = &ComponentHealth{
		Name:        name,
		Status:      status,
		Description: description,
		LastChecked: time.Now(),
	}
}

// GetHealth returns the current server health
func (m *Monitor) GetHealth(rooms, connections int) *ServerHealth {
	m.mu.RLock()
	components := make([]ComponentHealth, 0, len(m.components))
	overallStatus := StatusHealthy
	for _, comp := range m.components {
		components = append(components, *comp)
		if comp.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
		} else if comp.Status == StatusDegraded && overallStatus == StatusHealthy {
			overallStatus = StatusDegraded
		}
	}
	m.mu.RUnlock()

	return &ServerHealth{
		Status:      overallStatus,
		Uptime:      int64(time.Since(m.startTime).Seconds()),
		Timestamp:   time.Now(),
		Rooms:       rooms,
		Connections: connections,
		Goroutines:  runtime.NumGoroutine(),
		Host:        sampleHostStats(),
		Components:  components,
	}
}

// sampleHostStats gathers process and machine metrics. Machine metrics
// are best-effort; a lookup failure leaves the field zero.
func sampleHostStats() HostStats {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	hs := HostStats{
		ProcessMemoryMB: stats.Alloc / 1024 / 1024,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		hs.TotalMemoryMB = vm.Total / 1024 / 1024
		hs.UsedMemoryPct = vm.UsedPercent
	}
	if uptime, err := host.Uptime(); err == nil {
		hs.HostUptime = uptime
	}

	return hs
}
