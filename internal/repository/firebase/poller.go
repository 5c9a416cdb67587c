package firebase

import (
	"context"
	"crypto/sha256"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

type fetchFunc func(ctx context.Context, path string) (store.Snapshot, error)

// poller turns repeated reads into a change stream.
type poller struct {
	fetch    fetchFunc
	interval time.Duration
	logger   *zap.Logger
}

func (p *poller) run(ctx context.Context, path string, first store.Snapshot) <-chan store.Snapshot {
	mailbox := make(chan store.Snapshot, 1)
	out := make(chan store.Snapshot)

	last := digest(first)
	store.Offer(mailbox, first)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, err := p.fetch(ctx, path)
				if err != nil {
					if ctx.Err() == nil {
						p.logger.Warn("snapshot poll failed", zap.Error(err))
					}
					continue
				}
				if sum := digest(snap); sum != last {
					last = sum
					store.Offer(mailbox, snap)
				}
			}
		}
	}()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-mailbox:
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func digest(snap store.Snapshot) [sha256.Size]byte {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write(snap[k])
		h.Write([]byte{0})
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
