package captioner

import (
	"context"
	"errors"
)

// ErrNoCaption reports that a provider could not produce a caption.
var ErrNoCaption = errors.New("no caption")

// Provider describes a media file in free text.
type Provider interface {
	Caption(ctx context.Context, path string) (string, error)
}
