package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"lostfound/domain"
)

// BlobStore is the subset of S3 the archive writes through.
type BlobStore interface {
	Upload(key string, data []byte) error
}

// AuditArchive writes each item event as its own JSON object, keyed so a
// listing under audit/<itemID>/ comes back in event time order.
type AuditArchive struct {
	store  BlobStore
	prefix string
}

func NewAuditArchive(store BlobStore, prefix string) *AuditArchive {
	if prefix == "" {
		prefix = "audit"
	}
	return &AuditArchive{store: store, prefix: prefix}
}

func (a *AuditArchive) Record(ctx context.Context, entry domain.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	return a.store.Upload(a.Key(entry), body)
}

func (a *AuditArchive) Key(entry domain.AuditEntry) string {
	return fmt.Sprintf("%s/%s/%s-%s.json",
		a.prefix,
		entry.ItemID,
		entry.OccurredAt.UTC().Format("20060102T150405.000000000Z"),
		entry.EventID,
	)
}
