// Package creation hands finished snapshots to persistence: the encoded
// image is uploaded, then a creation record pointing at it is stored.
package creation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tryon-ar/internal/compositor"
)

// ErrUnreachable is returned by Ping when the target cannot take writes.
var ErrUnreachable = errors.New("creation: publisher unreachable")

// Record is a gallery entry for one try-on result.
type Record struct {
	ID              string    `json:"id"`
	SourceItemImage string    `json:"source_item_image"`
	ResultImage     string    `json:"result_image"`
	Description     string    `json:"description"`
	ItemType        string    `json:"item_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// Publisher persists artifacts and records.
type Publisher interface {
	// Ping reports whether the publisher can currently accept results.
	Ping(ctx context.Context) error
	// Upload stores the encoded image and returns its reference.
	Upload(ctx context.Context, art *compositor.Artifact) (string, error)
	// Create stores rec and returns it with ID and CreatedAt filled in.
	Create(ctx context.Context, rec Record) (Record, error)
	// Delete removes an uploaded image by the reference Upload returned.
	Delete(ctx context.Context, ref string) error
}

// Publish uploads art and creates a record referencing it. If the record
// cannot be stored the upload is removed again, leaving nothing behind.
func Publish(ctx context.Context, p Publisher, art *compositor.Artifact, rec Record) (Record, error) {
	ref, err := p.Upload(ctx, art)
	if err != nil {
		return Record{}, fmt.Errorf("creation: upload %s: %w", art.Name, err)
	}
	rec.ResultImage = ref
	out, err := p.Create(ctx, rec)
	if err != nil {
		if derr := p.Delete(context.WithoutCancel(ctx), ref); derr != nil {
			return Record{}, fmt.Errorf("creation: create record: %w (remove %s: %v)", err, ref, derr)
		}
		return Record{}, fmt.Errorf("creation: create record: %w", err)
	}
	return out, nil
}

func stamp(rec Record, now time.Time) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	return rec
}
