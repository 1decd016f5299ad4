package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger проверяемая зависимость
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthMonitor периодически проверяет хранилище и сообщает о смене состояния
type HealthMonitor struct {
	store    Pinger
	report   func(up bool)
	interval time.Duration
	logger   *zap.Logger
}

// NewHealthMonitor создаёт монитор; report вызывается после каждой проверки
func NewHealthMonitor(store Pinger, interval time.Duration, report func(up bool), logger *zap.Logger) *HealthMonitor {
	if report == nil {
		report = func(bool) {}
	}
	return &HealthMonitor{
		store:    store,
		report:   report,
		interval: interval,
		logger:   logger,
	}
}

// Run проверяет хранилище сразу и затем каждые interval до отмены ctx
func (m *HealthMonitor) Run(ctx context.Context) error {
	m.logger.Info("Starting store health monitor", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	up := m.check(ctx, true)
	for {
		select {
		case <-ticker.C:
			up = m.check(ctx, up)
		case <-ctx.Done():
			m.logger.Info("Store health monitor stopped")
			return nil
		}
	}
}

func (m *HealthMonitor) check(ctx context.Context, wasUp bool) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.store.Ping(pingCtx)
	up := err == nil
	m.report(up)

	switch {
	case !up && wasUp:
		m.logger.Error("Store became unavailable", zap.Error(err))
	case up && !wasUp:
		m.logger.Info("Store is available again")
	}
	return up
}
