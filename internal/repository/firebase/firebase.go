// Package firebase implements store.Store on top of the Firebase Realtime
// Database admin client.
package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/kuttybrothers/fleetdesk/internal/config"
	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

const defaultPollInterval = 5 * time.Second

// Store is the Realtime Database backed record store.
type Store struct {
	client       *db.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore connects to the database configured in cfg.
func NewStore(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("firebase database url must not be empty")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL, ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize realtime database client: %w", err)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	logger.Info("realtime database connected", zap.String("url", cfg.DatabaseURL), zap.Duration("poll_interval", interval))
	return &Store{client: client, pollInterval: interval, logger: logger}, nil
}

// Subscribe implements store.Store. The admin SDK has no change listeners, so
// the path is polled and a snapshot is emitted whenever its content changes.
func (s *Store) Subscribe(ctx context.Context, path string) (<-chan store.Snapshot, error) {
	// Fail fast on unreachable databases rather than inside the poll loop.
	first, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	p := &poller{
		fetch:    s.Get,
		interval: s.pollInterval,
		logger:   s.logger.With(zap.String("path", path)),
	}
	return p.run(ctx, path, first), nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, path string) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := s.client.NewRef(path).Get(ctx, &snap); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if snap == nil {
		snap = store.Snapshot{}
	}
	return snap, nil
}

// Append implements store.Store using a push id.
func (s *Store) Append(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("push into %s: %w", path, err)
	}
	s.logger.Debug("record pushed", zap.String("path", path), zap.String("id", ref.Key))
	return ref.Key, nil
}

// Update implements store.Store. The database would create missing children
// on update, so existence is checked first.
func (s *Store) Update(ctx context.Context, path, id string, fields map[string]interface{}) error {
	ref := s.client.NewRef(path).Child(id)
	if err := s.ensureExists(ctx, ref); err != nil {
		return fmt.Errorf("update %s/%s: %w", path, id, err)
	}
	if err := ref.Update(ctx, fields); err != nil {
		return fmt.Errorf("update %s/%s: %w", path, id, err)
	}
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, path, id string) error {
	ref := s.client.NewRef(path).Child(id)
	if err := s.ensureExists(ctx, ref); err != nil {
		return fmt.Errorf("delete %s/%s: %w", path, id, err)
	}
	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", path, id, err)
	}
	return nil
}

// Close releases the store. The admin client holds no connections of its own.
func (s *Store) Close() error {
	return nil
}

func (s *Store) ensureExists(ctx context.Context, ref *db.Ref) error {
	var raw json.RawMessage
	if err := ref.Get(ctx, &raw); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return store.ErrNotFound
	}
	return nil
}
