// Package memory provides an in-process implementation of store.Store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

// Store keeps records in memory and fans out snapshots to subscribers.
type Store struct {
	mu          sync.Mutex
	data        map[string]map[string]json.RawMessage
	subscribers map[string]map[int]chan store.Snapshot
	nextSub     int
	closed      bool
	logger      *zap.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		data:        make(map[string]map[string]json.RawMessage),
		subscribers: make(map[string]map[int]chan store.Snapshot),
		logger:      logger,
	}
}

// Subscribe implements store.Store.
func (s *Store) Subscribe(ctx context.Context, path string) (<-chan store.Snapshot, error) {
	path = cleanPath(path)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("subscribe %s: store closed", path)
	}

	mailbox := make(chan store.Snapshot, 1)
	id := s.nextSub
	s.nextSub++
	if s.subscribers[path] == nil {
		s.subscribers[path] = make(map[int]chan store.Snapshot)
	}
	s.subscribers[path][id] = mailbox
	store.Offer(mailbox, s.snapshotLocked(path))
	s.mu.Unlock()

	out := make(chan store.Snapshot)
	go func() {
		defer close(out)
		defer s.unsubscribe(path, id)

		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-mailbox:
				if !ok {
					return
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Get implements store.Store.
func (s *Store) Get(_ context.Context, path string) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(cleanPath(path)), nil
}

// Append implements store.Store. Ids are UUIDv7 so they sort by creation time.
func (s *Store) Append(_ context.Context, path string, value interface{}) (string, error) {
	path = cleanPath(path)

	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode value for %s: %w", path, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[path] == nil {
		s.data[path] = make(map[string]json.RawMessage)
	}
	s.data[path][id.String()] = raw
	s.publishLocked(path)

	s.logger.Debug("record appended", zap.String("path", path), zap.String("id", id.String()))
	return id.String(), nil
}

// Update implements store.Store by merging fields into the stored object.
func (s *Store) Update(_ context.Context, path, id string, fields map[string]interface{}) error {
	path = cleanPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[path][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", path, id, store.ErrNotFound)
	}

	merged := make(map[string]interface{})
	if err := json.Unmarshal(current, &merged); err != nil {
		return fmt.Errorf("decode %s/%s: %w", path, id, err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", path, id, err)
	}
	s.data[path][id] = raw
	s.publishLocked(path)
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(_ context.Context, path, id string) error {
	path = cleanPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[path][id]; !ok {
		return fmt.Errorf("delete %s/%s: %w", path, id, store.ErrNotFound)
	}
	delete(s.data[path], id)
	s.publishLocked(path)
	return nil
}

// Close stops every subscription.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for path, subs := range s.subscribers {
		for id, mailbox := range subs {
			close(mailbox)
			delete(subs, id)
		}
		delete(s.subscribers, path)
	}
	return nil
}

func (s *Store) unsubscribe(path string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers[path], id)
}

func (s *Store) snapshotLocked(path string) store.Snapshot {
	records := s.data[path]
	snap := make(store.Snapshot, len(records))
	for id, raw := range records {
		snap[id] = raw
	}
	return snap
}

func (s *Store) publishLocked(path string) {
	if len(s.subscribers[path]) == 0 {
		return
	}
	snap := s.snapshotLocked(path)
	for _, mailbox := range s.subscribers[path] {
		store.Offer(mailbox, snap)
	}
}

func cleanPath(path string) string {
	return strings.Trim(path, "/")
}
