// Package firestore reads and updates SafeTrip data in Google Cloud Firestore
// through the Firebase Admin SDK.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/cenkalti/backoff/v4"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nisitaSoni/safR/server/alert"
	"github.com/nisitaSoni/safR/server/store"
)

const (
	connectTimeout = 30 * time.Second

	// Location stream reconnects back off between these bounds and never give up
	reconnectInitialInterval = time.Second
	reconnectMaxInterval     = time.Minute
)

func init() {
	store.RegisterFactory(store.TypeFirestore, func(config store.Config, api *pluginapi.Client, _ plugin.API) (store.Store, error) {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return New(ctx, config, api)
	})
}

// Store is the Firestore-backed store.Store
type Store struct {
	api    *pluginapi.Client
	client *fs.Client
	now    func() time.Time

	openLocations func(ctx context.Context) locationStream
	newBackOff    func() backoff.BackOff

	mu            sync.Mutex
	subscriptions map[int]*subscription
	nextID        int
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New connects to the configured Firestore project.
func New(ctx context.Context, config store.Config, api *pluginapi.Client) (*Store, error) {
	var opts []option.ClientOption
	if config.FirestoreCredentials != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(config.FirestoreCredentials)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.FirestoreProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	api.Log.Info("Firestore store initialized", "projectId", config.FirestoreProjectID)

	s := &Store{
		api:           api,
		client:        client,
		now:           time.Now,
		newBackOff:    newReconnectBackOff,
		subscriptions: make(map[int]*subscription),
	}
	s.openLocations = s.openSnapshots
	return s, nil
}

func newReconnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = reconnectInitialInterval
	b.MaxInterval = reconnectMaxInterval
	b.MaxElapsedTime = 0
	return b
}

// FetchTourists returns every document of the tourists collection.
func (s *Store) FetchTourists(ctx context.Context) ([]alert.Tourist, error) {
	docs, err := s.client.Collection(CollectionTourists).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tourists: %w", err)
	}

	tourists := make([]alert.Tourist, 0, len(docs))
	for _, doc := range docs {
		var record touristRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, fmt.Errorf("failed to parse tourist %s: %w", doc.Ref.ID, err)
		}
		tourists = append(tourists, record.toTourist(doc.Ref.ID))
	}

	sort.Slice(tourists, func(i, j int) bool { return tourists[i].ID < tourists[j].ID })
	return tourists, nil
}

// FetchAlerts returns every alert, newest first.
func (s *Store) FetchAlerts(ctx context.Context) ([]alert.Alert, error) {
	iter := s.client.Collection(CollectionAlerts).Documents(ctx)
	defer iter.Stop()

	var alerts []alert.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate alerts: %w", err)
		}

		var record alertRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, fmt.Errorf("failed to parse alert %s: %w", doc.Ref.ID, err)
		}
		alerts = append(alerts, record.toAlert(doc.Ref.ID))
	}

	sortNewestFirst(alerts)
	return alerts, nil
}

// sortNewestFirst orders by occurrence time descending, then by id.
func sortNewestFirst(alerts []alert.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if !alerts[i].OccurredAt.Equal(alerts[j].OccurredAt) {
			return alerts[i].OccurredAt.After(alerts[j].OccurredAt)
		}
		return alerts[i].ID < alerts[j].ID
	})
}

// FetchRiskZones returns every document of the risk-zones collection.
func (s *Store) FetchRiskZones(ctx context.Context) ([]alert.RiskZone, error) {
	docs, err := s.client.Collection(CollectionRiskZones).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch risk zones: %w", err)
	}

	zones := make([]alert.RiskZone, 0, len(docs))
	for _, doc := range docs {
		var record riskZoneRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, fmt.Errorf("failed to parse risk zone %s: %w", doc.Ref.ID, err)
		}
		zones = append(zones, record.toRiskZone(doc.Ref.ID))
	}
	return zones, nil
}

// UpdateAlert writes the changed fields of one alert document.
func (s *Store) UpdateAlert(ctx context.Context, alertID string, delta store.StatusDelta) error {
	_, err := s.client.Collection(CollectionAlerts).Doc(alertID).Update(ctx, alertUpdates(delta, s.now()))
	if err != nil {
		return mapError(alertID, err)
	}

	s.api.Log.Debug("Alert persisted", "alertId", alertID, "status", string(delta.Status))
	return nil
}

// mapError translates gRPC status codes into package errors.
func mapError(alertID string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("alert %s: %w", alertID, alert.ErrNotFound)
	}
	return fmt.Errorf("failed to update alert %s: %w", alertID, err)
}

// SubscribeLocations streams the tourist-locations collection. Each snapshot
// delivers the full location set.
func (s *Store) SubscribeLocations(callback store.LocationCallback) (func(), error) {
	if callback == nil {
		return nil, fmt.Errorf("location callback is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscriptions[id] = sub
	s.mu.Unlock()

	go s.watchLocations(ctx, sub, callback)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscriptions, id)
			s.mu.Unlock()
			sub.stop()
		})
	}, nil
}

func (sub *subscription) stop() {
	sub.cancel()
	<-sub.done
}

// locationStream yields the full location set on every change until stopped.
type locationStream interface {
	Next() ([]alert.TouristLocation, error)
	Stop()
}

// watchLocations keeps a location stream open until ctx is cancelled. A
// failed stream is reopened after a backoff that resets once a snapshot
// arrives.
func (s *Store) watchLocations(ctx context.Context, sub *subscription, callback store.LocationCallback) {
	defer close(sub.done)

	b := backoff.WithContext(s.newBackOff(), ctx)
	for {
		err := s.streamLocations(ctx, b, callback)
		if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
			return
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			s.api.Log.Error("Location stream failed", "error", err.Error())
			return
		}
		s.api.Log.Warn("Location stream failed, reconnecting", "error", err.Error(), "retryIn", wait.String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Store) streamLocations(ctx context.Context, b backoff.BackOff, callback store.LocationCallback) error {
	stream := s.openLocations(ctx)
	defer stream.Stop()

	for {
		locations, err := stream.Next()
		if err != nil {
			return err
		}
		b.Reset()
		callback(locations)
	}
}

func (s *Store) openSnapshots(ctx context.Context) locationStream {
	return &snapshotStream{
		api: s.api,
		it:  s.client.Collection(CollectionLocations).Snapshots(ctx),
	}
}

type snapshotStream struct {
	api *pluginapi.Client
	it  *fs.QuerySnapshotIterator
}

func (st *snapshotStream) Next() ([]alert.TouristLocation, error) {
	snap, err := st.it.Next()
	if err != nil {
		return nil, err
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read location snapshot: %w", err)
	}

	locations := make([]alert.TouristLocation, 0, len(docs))
	for _, doc := range docs {
		var record touristLocationRecord
		if err := doc.DataTo(&record); err != nil {
			st.api.Log.Warn("Skipping malformed location", "documentId", doc.Ref.ID, "error", err.Error())
			continue
		}
		locations = append(locations, record.toLocation(doc.Ref.ID))
	}
	return locations, nil
}

func (st *snapshotStream) Stop() {
	st.it.Stop()
}

// Close stops every location stream and closes the Firestore client.
func (s *Store) Close() error {
	s.mu.Lock()
	subs := s.subscriptions
	s.subscriptions = make(map[int]*subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close firestore client: %w", err)
	}
	return nil
}
