// Package store defines the contract for the realtime record store the
// dashboard data lives in.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a record id does not exist under a path.
var ErrNotFound = errors.New("record not found")

// Snapshot is a complete view of every record under a path, keyed by the
// store-assigned id.
type Snapshot map[string]json.RawMessage

// Store is a hierarchical key-value store with change subscriptions.
type Store interface {
	// Subscribe delivers the snapshot under path now and again after every
	// change. A slow consumer only ever sees the latest snapshot. The channel
	// closes once ctx is done.
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, error)
	Get(ctx context.Context, path string) (Snapshot, error)
	// Append stores value under a new id and returns it.
	Append(ctx context.Context, path string, value interface{}) (string, error)
	Update(ctx context.Context, path, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, path, id string) error
	Close() error
}

// Offer hands snap to a single-slot mailbox, replacing any snapshot the
// consumer has not picked up yet.
func Offer(mailbox chan Snapshot, snap Snapshot) {
	for {
		select {
		case mailbox <- snap:
			return
		default:
		}
		select {
		case <-mailbox:
		default:
		}
	}
}
