package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"inkwell/app/config"
	"inkwell/app/logging"
)

// Open connects to the backend selected by the storage configuration.
func Open(cfg config.StorageConfig, logger *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		db, err := OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		return NewBadgerStore(db), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := OpenGorm(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// OpenBadger opens the badger database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string, logger *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(logging.NewBadgerLogger(logger)).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerStore builds a store over db. Closing the store closes db.
func NewBadgerStore(db *badger.DB) *Store {
	return &Store{
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Tags:     NewBadgerTagRepository(db),
		Users:    NewBadgerUserRepository(db),
		close:    db.Close,
	}
}
