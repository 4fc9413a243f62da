package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "casacueto/internal/app/outbox"
)

type outboxEntry struct {
	record    appoutbox.EventRecord
	attempts  int
	nextTry   time.Time
	claimedBy string
	lastError string
}

// Outbox keeps event records in memory. Records staged by Add become visible
// to Claim once Flush is called, mirroring a committed write.
type Outbox struct {
	mu      sync.Mutex
	staged  []appoutbox.EventRecord
	entries []*outboxEntry
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, rec := range o.staged {
		o.entries = append(o.entries, &outboxEntry{record: rec, nextTry: now})
	}
	o.staged = nil
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.ClaimedRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, e := range o.entries {
		if e.claimedBy != "" || e.nextTry.After(now) {
			continue
		}
		e.claimedBy = workerID
		return &appoutbox.ClaimedRecord{EventRecord: e.record, Attempts: e.attempts}, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.record.ID == id {
			continue
		}
		kept = append(kept, e)
	}
	o.entries = kept
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.entries {
		if e.record.ID == id {
			e.attempts++
			e.nextTry = next
			e.claimedBy = ""
			e.lastError = errMsg
		}
	}
	return nil
}

// Pending reports records flushed but not yet sent.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

var (
	_ appoutbox.Outbox = (*Outbox)(nil)
	_ appoutbox.Relay  = (*Outbox)(nil)
)
