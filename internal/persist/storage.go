package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"multivendor-client/internal/models"
)

var (
	// ErrNotFound is returned by Load when nothing is stored under the key
	ErrNotFound = errors.New("persisted state not found")
	// ErrIncompatible is returned for snapshots written by a newer format
	ErrIncompatible = errors.New("persisted state has an unsupported version")
)

// Storage is a string-keyed blob store for the durable state snapshot
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

var validate = validator.New()

// LoadSnapshot reads and checks the snapshot stored under key. Snapshots
// without a version field predate versioning and are read as version 1.
func LoadSnapshot(ctx context.Context, s Storage, key string) (models.Snapshot, error) {
	data, err := s.Load(ctx, key)
	if err != nil {
		return models.Snapshot{}, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode persisted state: %w", err)
	}
	if snap.Version > models.SnapshotVersion {
		return models.Snapshot{}, fmt.Errorf("%w: %d", ErrIncompatible, snap.Version)
	}
	if snap.Version == 0 {
		snap.Version = models.SnapshotVersion
	}
	if err := validate.Struct(&snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("invalid persisted state: %w", err)
	}
	return snap, nil
}

// Options selects and configures a Storage backend
type Options struct {
	Type        string
	Path        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the backend named by opts.Type
func Open(opts Options) (Storage, error) {
	switch opts.Type {
	case "", "file":
		return NewFileStorage(opts.Path)
	case "sqlite":
		return NewSQLStorage("sqlite", opts.DatabaseURL)
	case "postgres":
		return NewSQLStorage("postgres", opts.DatabaseURL)
	case "redis":
		return NewRedisStorage(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}
