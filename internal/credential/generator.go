// Package credential produces scannable check-in artifacts for registered
// participants and publishes them to object storage.
package credential

import (
	"context"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"reunion/internal/platform/objectstore"
	dErrors "reunion/pkg/domain-errors"
)

const artifactPrefix = "qrcodes"

// Generator encodes a deterministic event/phone seed into a QR PNG and
// uploads it under a timestamped path so prior artifacts are never
// overwritten.
type Generator struct {
	storage objectstore.Store
	eventID string
	now     func() time.Time
}

func NewGenerator(storage objectstore.Store, eventID string) *Generator {
	return &Generator{
		storage: storage,
		eventID: eventID,
		now:     time.Now,
	}
}

// Generate renders and uploads a fresh artifact for the given phone number
// and returns its public URL. A storage failure aborts the operation; no
// partial URL is ever returned.
func (g *Generator) Generate(ctx context.Context, phone string) (string, error) {
	seed := fmt.Sprintf("%s:%s", g.eventID, phone)

	png, err := qrcode.Encode(seed, qrcode.Medium, 256)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode credential artifact")
	}

	path := fmt.Sprintf("%s/%s-%d.png", artifactPrefix, phone, g.now().UnixNano())
	if err := g.storage.Put(ctx, path, png, "image/png"); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credential artifact")
	}

	return g.storage.PublicURL(path), nil
}
