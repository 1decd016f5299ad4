package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyPinger struct {
	mu  sync.Mutex
	err error
}

func (p *flakyPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *flakyPinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type reports struct {
	mu  sync.Mutex
	ups []bool
}

func (r *reports) add(up bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ups = append(r.ups, up)
}

func (r *reports) last() (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ups) == 0 {
		return false, 0
	}
	return r.ups[len(r.ups)-1], len(r.ups)
}

func TestHealthMonitorReportsState(t *testing.T) {
	pinger := &flakyPinger{}
	rep := &reports{}
	monitor := NewHealthMonitor(pinger, 10*time.Millisecond, rep.add, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	require.Eventually(t, func() bool {
		up, n := rep.last()
		return n > 0 && up
	}, time.Second, 5*time.Millisecond)

	pinger.set(errors.New("connection refused"))
	require.Eventually(t, func() bool {
		up, _ := rep.last()
		return !up
	}, time.Second, 5*time.Millisecond)

	pinger.set(nil)
	require.Eventually(t, func() bool {
		up, _ := rep.last()
		return up
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
