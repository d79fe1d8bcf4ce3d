package store

import (
	bolt "go.etcd.io/bbolt"

	"github.com/entryhold/node/address"
)

// Put stores value under addr in the content-addressed bucket,
// overwriting any previous entry for addr. Callers are expected to have
// derived addr from value (address.Compute over its canonical bytes);
// Put does not re-derive or verify it, matching the content store
// gateway's "addressing is the caller's responsibility" contract.
func (s *Store) Put(addr address.Address, value interface{}) error {
	enc, err := encode(value)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(casBucket).Put(addr.Bytes(), enc)
	}); err != nil {
		return err
	}
	s.cache.Set(addr.String(), enc, int64(len(enc)))
	return nil
}

// Get loads the value stored under addr into dst, a pointer to the
// concrete type the caller expects back. It reports whether addr was
// present.
func (s *Store) Get(addr address.Address, dst interface{}) (bool, error) {
	if cached, ok := s.cache.Get(addr.String()); ok {
		return true, decode(cached.([]byte), dst)
	}

	var enc []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(casBucket).Get(addr.Bytes())
		if v != nil {
			enc = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return false, err
	}
	if enc == nil {
		return false, nil
	}
	s.cache.Set(addr.String(), enc, int64(len(enc)))
	return true, decode(enc, dst)
}

// Has reports whether addr is present in the content-addressed bucket,
// without paying the decode cost.
func (s *Store) Has(addr address.Address) (bool, error) {
	if _, ok := s.cache.Get(addr.String()); ok {
		return true, nil
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(casBucket).Get(addr.Bytes()) != nil
		return nil
	})
	return found, err
}
