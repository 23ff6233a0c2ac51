package resource

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/semfind/embed"
)

const modelKeyPrefix = "semfind:model"

// Store caches decoded embedding models in BadgerDB so repeat startups skip
// JSON parsing of a multi-megabyte payload. Entries are keyed by the BLAKE2b
// digest of the raw payload, so an edited resource file never serves a stale
// model. No search or session state is ever written here.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a model cache at the given directory.
// With inMemory set, the path is ignored and nothing touches disk; tests use
// this mode.
func OpenStore(path string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(path, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(path)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the BLAKE2b-256 digest of a raw resource payload.
func Digest(data []byte) []byte {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return h.Sum(nil)
}

// LoadModel retrieves a previously stored model by payload digest.
// The boolean is false when the digest has no entry.
func (s *Store) LoadModel(digest []byte) (*embed.Model, bool, error) {
	var model *embed.Model
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeModelKey(digest))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			m, err := unmarshalModel(val)
			if err != nil {
				return err
			}
			model = m
			found = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return model, found, nil
}

// SaveModel stores a decoded model under the payload digest.
func (s *Store) SaveModel(digest []byte, model *embed.Model) error {
	value := marshalModel(model)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeModelKey(digest), value)
	})
}

// makeModelKey generates a key for a decoded model by payload digest.
func makeModelKey(digest []byte) []byte {
	prefix := modelKeyPrefix + ":"
	buf := make([]byte, len(prefix)+len(digest))
	offset := copy(buf, prefix)
	copy(buf[offset:], digest)
	return buf
}
