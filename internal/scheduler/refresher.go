// Package scheduler periodically refreshes the on-disk artifacts through
// the external generator so the artifact tiers serve fresh data between
// requests. Refresh is best-effort: failures are logged and the previous
// artifact stays in place.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trendlens/internal/service/generator"
)

// refreshLimit is how many records a refresh asks the generator for.
const refreshLimit = 200

// Refresher regenerates the primary topic artifact on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	invoker  *generator.Invoker
	dir      string
	artifact string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRefresher builds a refresher that rewrites dir/artifact from the
// generator's get_hot_notes output.
func NewRefresher(invoker *generator.Invoker, dir, artifact string, timeout time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		invoker:  invoker,
		dir:      dir,
		artifact: artifact,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start registers the refresh job under spec and starts the scheduler.
func (r *Refresher) Start(spec string) error {
	if r.invoker == nil {
		return fmt.Errorf("artifact refresh requires a configured generator")
	}
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return fmt.Errorf("registering refresh job: %w", err)
	}
	r.cron.Start()
	r.logger.Info("artifact refresh scheduled", zap.String("spec", spec))
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	out, err := r.invoker.Invoke(ctx, generator.Task{
		Name:   "get_hot_notes",
		Params: map[string]any{"limit": refreshLimit},
	}, r.timeout)
	if err != nil {
		r.logger.Warn("artifact refresh failed", zap.Error(err))
		return
	}

	if err := r.write(out.Data); err != nil {
		r.logger.Warn("artifact refresh write failed", zap.Error(err))
		return
	}
	r.logger.Info("artifact refreshed",
		zap.String("artifact", r.artifact),
		zap.Int("bytes", len(out.Data)))
}

// write replaces the artifact atomically so readers never observe a
// partial file.
func (r *Refresher) write(data []byte) error {
	tmp, err := os.CreateTemp(r.dir, r.artifact+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(r.dir, r.artifact))
}
