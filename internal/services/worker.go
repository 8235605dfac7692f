package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically removes stale files from the upload directory.
// Uploads that failed extraction stay on disk for diagnosis until they
// exceed the retention window.
type Janitor interface {
	Start(ctx context.Context)
	Stop()
	Sweep() int
}

type janitor struct {
	storage   StorageService
	retention time.Duration
	interval  time.Duration
	wg        sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewJanitor(storage StorageService, retention, interval time.Duration) Janitor {
	return &janitor{
		storage:   storage,
		retention: retention,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start implements Janitor. A zero retention or interval disables sweeping.
func (j *janitor) Start(ctx context.Context) {
	if j.retention <= 0 || j.interval <= 0 {
		zap.L().Info("upload janitor disabled")
		return
	}

	j.wg.Add(1)
	go j.run(ctx)

	zap.L().Info("upload janitor started",
		zap.Duration("retention", j.retention),
		zap.Duration("interval", j.interval),
	)
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
	})
	j.wg.Wait()
}

// Sweep implements Janitor.
func (j *janitor) Sweep() int {
	removed, err := j.storage.PurgeOlderThan(j.retention)
	if err != nil {
		zap.L().Warn("upload sweep failed", zap.Error(err))
	}
	if removed > 0 {
		zap.L().Info("stale uploads removed", zap.Int("count", removed))
	}
	return removed
}

func (j *janitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
