// Package kvstore keeps tourists, alerts, risk zones and live locations in the
// Mattermost plugin KV store. Keys that were never written serve the built-in
// demo data set.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

// KV keys, each holding a JSON array
const (
	KeyTourists  = "safetrip_tourists"
	KeyAlerts    = "safetrip_alerts"
	KeyRiskZones = "safetrip_riskzones"
	KeyLocations = "safetrip_locations"
)

// MaxUpdateAttempts bounds the compare-and-set loop in UpdateAlert
const MaxUpdateAttempts = 3

// ErrConflict is returned when concurrent writers keep winning the compare-and-set race.
var ErrConflict = errors.New("concurrent update conflict")

func init() {
	store.RegisterFactory(store.TypeKVStore, func(config store.Config, api *pluginapi.Client, papi plugin.API) (store.Store, error) {
		return New(config, api, papi), nil
	})
}

// Store is the KV-backed store.Store
type Store struct {
	api      *pluginapi.Client
	papi     plugin.API
	interval time.Duration

	mu        sync.Mutex
	scheduler JobScheduler
	watcher   *locationWatcher
}

// New creates a KV store. No KV traffic happens until the first call.
func New(config store.Config, api *pluginapi.Client, papi plugin.API) *Store {
	return &Store{
		api:       api,
		papi:      papi,
		interval:  config.PollInterval(),
		scheduler: NewClusterJobScheduler(papi),
	}
}

// SetScheduler sets a custom job scheduler (useful for testing)
func (s *Store) SetScheduler(scheduler JobScheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = scheduler
}

// FetchTourists returns the stored tourists or the demo set.
func (s *Store) FetchTourists(ctx context.Context) ([]alert.Tourist, error) {
	var tourists []alert.Tourist
	if err := s.load(ctx, KeyTourists, &tourists); err != nil {
		return nil, err
	}
	if tourists == nil {
		return SeedTourists(), nil
	}
	return tourists, nil
}

// FetchAlerts returns the stored alerts or the demo set.
func (s *Store) FetchAlerts(ctx context.Context) ([]alert.Alert, error) {
	var alerts []alert.Alert
	if err := s.load(ctx, KeyAlerts, &alerts); err != nil {
		return nil, err
	}
	if alerts == nil {
		return SeedAlerts(), nil
	}
	return alerts, nil
}

// FetchRiskZones returns the stored risk zones or the demo set.
func (s *Store) FetchRiskZones(ctx context.Context) ([]alert.RiskZone, error) {
	var zones []alert.RiskZone
	if err := s.load(ctx, KeyRiskZones, &zones); err != nil {
		return nil, err
	}
	if zones == nil {
		return SeedRiskZones(), nil
	}
	return zones, nil
}

// load decodes key into out. A missing key leaves out untouched.
func (s *Store) load(ctx context.Context, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, appErr := s.papi.KVGet(key)
	if appErr != nil {
		return fmt.Errorf("failed to get %s: %w", key, appErr)
	}
	if data == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// UpdateAlert applies delta to one stored alert with compare-and-set. The first
// write of a never-written key stores the demo set with the change applied.
func (s *Store) UpdateAlert(ctx context.Context, alertID string, delta store.StatusDelta) error {
	for attempt := 1; attempt <= MaxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, appErr := s.papi.KVGet(KeyAlerts)
		if appErr != nil {
			return fmt.Errorf("failed to get alerts: %w", appErr)
		}

		alerts := SeedAlerts()
		if current != nil {
			alerts = nil
			if err := json.Unmarshal(current, &alerts); err != nil {
				return fmt.Errorf("failed to decode alerts: %w", err)
			}
		}

		index := -1
		for i := range alerts {
			if alerts[i].ID == alertID {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("alert %s: %w", alertID, alert.ErrNotFound)
		}
		delta.Apply(&alerts[index])

		updated, err := json.Marshal(alerts)
		if err != nil {
			return fmt.Errorf("failed to encode alerts: %w", err)
		}

		ok, appErr := s.papi.KVCompareAndSet(KeyAlerts, current, updated)
		if appErr != nil {
			return fmt.Errorf("failed to save alert %s: %w", alertID, appErr)
		}
		if ok {
			s.api.Log.Debug("Alert persisted", "alertId", alertID, "status", string(delta.Status), "attempt", attempt)
			return nil
		}

		s.api.Log.Debug("Alert update lost compare-and-set race, retrying", "alertId", alertID, "attempt", attempt)
	}

	s.api.Log.Warn("Giving up on alert update", "alertId", alertID, "attempts", MaxUpdateAttempts)
	return fmt.Errorf("failed to save alert %s after %d attempts: %w", alertID, MaxUpdateAttempts, ErrConflict)
}

// SubscribeLocations registers callback with the shared location watcher,
// starting its cluster job on the first subscription.
func (s *Store) SubscribeLocations(callback store.LocationCallback) (func(), error) {
	if callback == nil {
		return nil, fmt.Errorf("location callback is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		w := newLocationWatcher(s.api, s.papi, s.interval)
		if err := w.start(s.scheduler); err != nil {
			return nil, err
		}
		s.watcher = w
	}

	w := s.watcher
	id := w.add(callback)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(w, id) })
	}, nil
}

func (s *Store) unsubscribe(w *locationWatcher, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.remove(id) > 0 || s.watcher != w {
		return
	}
	if err := w.stop(); err != nil {
		s.api.Log.Error("Failed to stop location watcher", "error", err.Error())
	}
	s.watcher = nil
}

// Close stops the location watcher and drops every subscription.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		return nil
	}
	err := s.watcher.stop()
	s.watcher = nil
	return err
}
