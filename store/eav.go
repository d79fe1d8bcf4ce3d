package store

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	"github.com/entryhold/node/address"
)

// eavKey builds the composite entity|attribute|value key used for range
// scans over the EAV bucket. Entity and value are fixed-width addresses,
// so a length-prefixed attribute in the middle keeps prefix scans by
// (entity, attribute) unambiguous regardless of attribute contents.
func eavKey(entity address.Address, attribute string, value address.Address) []byte {
	prefix := eavPrefix(entity, attribute)
	key := make([]byte, len(prefix)+address.Size)
	copy(key, prefix)
	copy(key[len(prefix):], value.Bytes())
	return key
}

func eavPrefix(entity address.Address, attribute string) []byte {
	attrBytes := []byte(attribute)
	prefix := make([]byte, address.Size+2+len(attrBytes))
	copy(prefix, entity.Bytes())
	binary.BigEndian.PutUint16(prefix[address.Size:], uint16(len(attrBytes)))
	copy(prefix[address.Size+2:], attrBytes)
	return prefix
}

// AddEAV records an entity-attribute-value assertion, e.g. (base, "link:comment:reply", target)
// for a link-add, used later to resolve links from their base entry.
func (s *Store) AddEAV(entity address.Address, attribute string, value address.Address) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(eavBucket).Put(eavKey(entity, attribute, value), []byte{1})
	})
}

// RemoveEAV deletes a previously recorded assertion, e.g. when a
// link-remove entry is validated and held.
func (s *Store) RemoveEAV(entity address.Address, attribute string, value address.Address) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(eavBucket).Delete(eavKey(entity, attribute, value))
	})
}

// QueryEAV returns every value recorded against (entity, attribute), in
// key order.
func (s *Store) QueryEAV(entity address.Address, attribute string) ([]address.Address, error) {
	prefix := eavPrefix(entity, attribute)
	var out []address.Address
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(eavBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			valueBytes := k[len(prefix):]
			addr, err := address.FromBytes(valueBytes)
			if err != nil {
				return err
			}
			out = append(out, addr)
		}
		return nil
	})
	return out, err
}

// EAVRecord is one (attribute, value) pair recorded against an entity,
// returned by QueryEAVAll.
type EAVRecord struct {
	Attribute string
	Value     address.Address
}

// QueryEAVAll returns every (attribute, value) pair recorded against
// entity, regardless of attribute. Used by the fetch handler to gather
// every meta-assertion about an entry without enumerating attribute
// names up front.
func (s *Store) QueryEAVAll(entity address.Address) ([]EAVRecord, error) {
	prefix := entity.Bytes()
	var out []EAVRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(eavBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			attrLen := binary.BigEndian.Uint16(k[address.Size:])
			attrStart := address.Size + 2
			attrEnd := attrStart + int(attrLen)
			attribute := string(k[attrStart:attrEnd])
			value, err := address.FromBytes(k[attrEnd:])
			if err != nil {
				return err
			}
			out = append(out, EAVRecord{Attribute: attribute, Value: value})
		}
		return nil
	})
	return out, err
}

// FullEAVRecord is one (entity, attribute, value) assertion, returned by
// DumpEAV.
type FullEAVRecord struct {
	Entity    address.Address
	Attribute string
	Value     address.Address
}

// DumpEAV returns every assertion in the index, regardless of entity.
// Used by the diagnostic state dump, which is the only caller that needs
// the whole index rather than a single entity's slice of it.
func (s *Store) DumpEAV() ([]FullEAVRecord, error) {
	var out []FullEAVRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(eavBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			entity, err := address.FromBytes(k[:address.Size])
			if err != nil {
				return err
			}
			attrLen := binary.BigEndian.Uint16(k[address.Size:])
			attrStart := address.Size + 2
			attrEnd := attrStart + int(attrLen)
			attribute := string(k[attrStart:attrEnd])
			value, err := address.FromBytes(k[attrEnd:])
			if err != nil {
				return err
			}
			out = append(out, FullEAVRecord{Entity: entity, Attribute: attribute, Value: value})
		}
		return nil
	})
	return out, err
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
