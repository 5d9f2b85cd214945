package health

import (
	"testing"
)

func TestNewMonitor(t *testing.T) {
	m := NewMonitor()
	if m == nil {
		t.Fatal("NewMonitor returned nil")
	}
}

func TestGetHealthDefaults(t *testing.T) {
	m := NewMonitor()
	h := m.GetHealth(2, 17)

	if h.Status != StatusHealthy {
		t.Errorf("Expected healthy with no components, got %s", h.Status)
	}
	if h.Rooms != 2 {
		t.Errorf("Expected 2 rooms, got %d", h.Rooms)
	}
	if h.Connections != 17 {
		t.Errorf("Expected 17 connections, got %d", h.Connections)
	}
	if h.Goroutines < 1 {
		t.Error("Goroutine count should be positive")
	}
}

func TestComponentStatusAggregation(t *testing.T) {
	m := NewMonitor()

	m.SetComponentStatus("storage", StatusHealthy, "")
	if got := m.GetHealth(0, 0).Status; got != StatusHealthy {
		t.Errorf("Expected healthy, got %s", got)
	}

	m.SetComponentStatus("storage", StatusDegraded, "slow writes")
	if got := m.GetHealth(0, 0).Status; got != StatusDegraded {
		t.Errorf("Expected degraded, got %s", got)
	}

	m.SetComponentStatus("registry", StatusUnhealthy, "down")
	if got := m.GetHealth(0, 0).Status; got != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", got)
	}
}

func TestComponentStatusOverwrite(t *testing.T) {
	m := NewMonitor()
	m.SetComponentStatus("storage", StatusUnhealthy, "down")
	m.SetComponentStatus("storage", StatusHealthy, "recovered")

	h := m.GetHealth(0, 0)
	if h.Status != StatusHealthy {
		t.Errorf("Expected healthy after recovery, got %s", h.Status)
	}
	if len(h.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(h.Components))
	}
}
