package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/pkg/clients/inventory"
)

// Prober calls the backend liveness endpoint.
type Prober interface {
	Health(ctx context.Context) (*inventory.HealthResponse, error)
}

// Monitor keeps the last known backend status.
type Monitor struct {
	prober Prober
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	status models.BackendStatus
}

// NewMonitor wires a new monitor instance.
func NewMonitor(prober Prober, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		prober: prober,
		logger: logger,
		now:    time.Now,
		status: models.BackendStatus{Message: "unknown"},
	}
}

// Probe checks the backend once and records the result.
func (m *Monitor) Probe(ctx context.Context) models.BackendStatus {
	status := models.BackendStatus{CheckedAt: m.now().UTC()}

	resp, err := m.prober.Health(ctx)
	switch {
	case err != nil:
		status.Message = err.Error()
		m.logger.Warn("backend health probe failed", zap.Error(err))
	default:
		status.Healthy = true
		status.Message = resp.Message
		m.logger.Debug("backend healthy", zap.String("message", resp.Message))
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	return status
}

// Status returns the last recorded status.
func (m *Monitor) Status() models.BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
