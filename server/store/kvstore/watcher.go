package kvstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/mattermost/mattermost/server/public/pluginapi/cluster"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

const locationJobID = "safetrip_locations_watch"

// locationWatcher polls the locations key from a cluster job and fans the
// decoded set out to every subscriber when the stored bytes change.
type locationWatcher struct {
	api      *pluginapi.Client
	papi     plugin.API
	interval time.Duration
	job      Job

	mu          sync.Mutex
	nextID      int
	subscribers map[int]store.LocationCallback
	last        []byte
}

func newLocationWatcher(api *pluginapi.Client, papi plugin.API, interval time.Duration) *locationWatcher {
	return &locationWatcher{
		api:         api,
		papi:        papi,
		interval:    interval,
		subscribers: make(map[int]store.LocationCallback),
	}
}

func (w *locationWatcher) start(scheduler JobScheduler) error {
	job, err := scheduler.Schedule(locationJobID, w.nextWaitInterval, w.run)
	if err != nil {
		return fmt.Errorf("failed to schedule location job: %w", err)
	}
	w.job = job
	w.api.Log.Info("Location watcher started", "interval", w.interval.String())
	return nil
}

func (w *locationWatcher) stop() error {
	if w.job == nil {
		return nil
	}

	err := w.job.Close()
	w.job = nil
	if err != nil {
		return fmt.Errorf("failed to close location job: %w", err)
	}

	w.api.Log.Info("Location watcher stopped")
	return nil
}

// add registers callback and returns its id. A new subscriber receives the
// current set on the next run.
func (w *locationWatcher) add(callback store.LocationCallback) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subscribers[id] = callback
	w.last = nil
	return id
}

// remove drops a subscriber and returns how many remain.
func (w *locationWatcher) remove(id int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.subscribers, id)
	return len(w.subscribers)
}

// nextWaitInterval runs the first poll immediately, then once per interval.
func (w *locationWatcher) nextWaitInterval(now time.Time, metadata cluster.JobMetadata) time.Duration {
	if metadata.LastFinished.IsZero() {
		return 0
	}

	sinceLastFinished := now.Sub(metadata.LastFinished)
	if sinceLastFinished < w.interval {
		return w.interval - sinceLastFinished
	}

	return 0
}

// run is called by the cluster job scheduler to execute one poll
func (w *locationWatcher) run() {
	data, appErr := w.papi.KVGet(KeyLocations)
	if appErr != nil {
		w.api.Log.Error("Failed to get tourist locations", "error", appErr.Error())
		return
	}

	var locations []alert.TouristLocation
	if data == nil {
		locations = SeedLocations()
		encoded, err := json.Marshal(locations)
		if err != nil {
			w.api.Log.Error("Failed to encode seed locations", "error", err.Error())
			return
		}
		data = encoded
	} else if err := json.Unmarshal(data, &locations); err != nil {
		w.api.Log.Error("Failed to decode tourist locations", "error", err.Error())
		return
	}

	w.mu.Lock()
	if bytes.Equal(data, w.last) {
		w.mu.Unlock()
		return
	}
	w.last = data

	ids := make([]int, 0, len(w.subscribers))
	for id := range w.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	callbacks := make([]store.LocationCallback, 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, w.subscribers[id])
	}
	w.mu.Unlock()

	w.api.Log.Debug("Tourist locations changed", "count", len(locations), "subscribers", len(callbacks))

	for _, callback := range callbacks {
		snapshot := make([]alert.TouristLocation, len(locations))
		copy(snapshot, locations)
		callback(snapshot)
	}
}
