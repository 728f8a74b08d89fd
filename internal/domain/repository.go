package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// OCREngine converts an image into recognized text.
// Implementations return the raw text; normalization happens in the usecase layer.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}
