// Package store provides the node's persistent content store: a
// content-addressed bucket for entries, chain headers and validation
// packages, and an entity-attribute-value index used to resolve links.
package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombolt "github.com/prysmaticlabs/prombbolt"
	bolt "go.etcd.io/bbolt"
)

const databaseFileName = "holdnode.db"

// cacheMaxCost caps the ristretto front cache fronting CAS reads; the
// store is entries/headers/packages, not raw blocks, so a few thousand
// hot objects covers a working holding set without meaningful memory
// pressure.
var cacheMaxCost = int64(1 << 24)

var (
	casBucket = []byte("content_addressable_store")
	eavBucket = []byte("entity_attribute_value_index")
)

func allBuckets() [][]byte {
	return [][]byte{casBucket, eavBucket, sourceChainBucket}
}

// Store is a bbolt-backed content store with a ristretto read cache and
// bolt-internal metrics exported through a prombbolt collector.
type Store struct {
	db           *bolt.DB
	databasePath string
	cache        *ristretto.Cache
}

// Open initializes a bbolt database at dirPath, creating its buckets if
// they don't already exist, and registers its prometheus collector.
func Open(dirPath string) (*Store, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, errors.Wrap(err, "store: creating data directory")
	}
	datafile := filepath.Join(dirPath, databaseFileName)
	db, err := bolt.Open(datafile, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("store: cannot obtain database lock, may be in use by another process")
		}
		return nil, errors.Wrap(err, "store: opening database")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100000,
		MaxCost:     cacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "store: constructing read cache")
	}

	s := &Store{db: db, databasePath: dirPath, cache: cache}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "store: creating buckets")
	}

	if err := prometheus.Register(s.collector()); err != nil {
		log.WithError(err).Debug("bolt collector already registered")
	}

	return s, nil
}

func (s *Store) collector() prometheus.Collector {
	return prombolt.New("holdnode", s.db)
}

// Close unregisters the store's metrics collector and closes the
// underlying database.
func (s *Store) Close() error {
	prometheus.Unregister(s.collector())
	s.cache.Close()
	return s.db.Close()
}

// DatabasePath returns the directory this store writes files under.
func (s *Store) DatabasePath() string {
	return s.databasePath
}
