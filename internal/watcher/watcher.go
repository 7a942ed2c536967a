// Package watcher keeps the in-memory settings snapshot in sync with the
// settings table.
package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
	internalsettings "github.com/pms-parking/parkwash/internal/settings"
	log "github.com/sirupsen/logrus"
)

const (
	// defaultPollInterval controls how often the settings table is checked.
	defaultPollInterval = 2 * time.Second
	// defaultQueryTimeout bounds DB query duration.
	defaultQueryTimeout = 10 * time.Second
)

// Store is the settings source polled by the watcher.
type Store interface {
	LatestSetting(ctx context.Context) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
}

// SettingsWatcher polls the settings table and publishes changes into a snapshot.
type SettingsWatcher struct {
	store        Store
	snapshot     *internalsettings.Snapshot
	pollInterval time.Duration

	mu        sync.Mutex
	latestAt  time.Time
	latestKey string
	hasLatest bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a SettingsWatcher. A non-positive interval uses the default.
func New(store Store, snapshot *internalsettings.Snapshot, interval time.Duration) *SettingsWatcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &SettingsWatcher{store: store, snapshot: snapshot, pollInterval: interval}
}

// Start loads the settings once and keeps polling until ctx is canceled or Stop is called.
func (w *SettingsWatcher) Start(ctx context.Context) error {
	if w == nil || w.store == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if errLoad := w.Refresh(ctx); errLoad != nil {
		return errLoad
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(runCtx)
	}()
	log.Infof("settings watcher started (poll_interval=%s)", w.pollInterval)
	return nil
}

// Stop cancels polling and waits for the loop to exit.
func (w *SettingsWatcher) Stop() {
	if w == nil || w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
}

// Refresh reloads every setting into the snapshot unconditionally.
func (w *SettingsWatcher) Refresh(ctx context.Context) error {
	return w.poll(ctx, true)
}

func (w *SettingsWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if errPoll := w.poll(ctx, false); errPoll != nil && !errors.Is(errPoll, context.Canceled) {
				log.WithError(errPoll).Warn("settings watcher: poll failed")
			}
		}
	}
}

// poll reloads the settings when the newest row changed since the last load, or when force is set.
func (w *SettingsWatcher) poll(ctx context.Context, force bool) error {
	qctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	w.mu.Lock()
	defer w.mu.Unlock()

	latest, errLatest := w.store.LatestSetting(qctx)
	if errLatest != nil {
		return errLatest
	}
	latestKey := ""
	latestAt := time.Time{}
	if latest != nil {
		latestKey = strings.TrimSpace(latest.Key)
		latestAt = latest.UpdatedAt.UTC()
	}
	if !force {
		if latest == nil {
			if !w.hasLatest {
				return nil
			}
		} else if w.hasLatest && latestAt.Equal(w.latestAt) && latestKey == w.latestKey {
			return nil
		}
		log.Infof("settings watcher: settings changed, reloading (latest_updated_at=%s latest_key=%s)", latestAt.Format(time.RFC3339Nano), latestKey)
	}

	rows, errList := w.store.ListSettings(qctx)
	if errList != nil {
		return errList
	}
	values := make(map[string]json.RawMessage, len(rows))
	maxUpdatedAt := time.Time{}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		values[key] = json.RawMessage(row.Value)
		if rowUpdatedAt := row.UpdatedAt.UTC(); rowUpdatedAt.After(maxUpdatedAt) {
			maxUpdatedAt = rowUpdatedAt
		}
	}
	w.snapshot.Store(maxUpdatedAt, values)

	w.latestAt = latestAt
	w.latestKey = latestKey
	w.hasLatest = latest != nil
	return nil
}
