package store

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	"github.com/entryhold/node/chain"
)

var sourceChainBucket = []byte("source_chain")

// AppendToChain records ewh as the next entry in the local agent's
// source chain, in append order. It does not validate ewh.Header.Link
// against the previous entry; that ordering is the authoring
// workflow's responsibility.
func (s *Store) AppendToChain(ewh chain.EntryWithHeader) error {
	enc, err := encode(ewh)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourceChainBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), enc)
	})
}

// IterChain returns every entry appended to the local source chain, in
// append order (oldest first).
func (s *Store) IterChain() ([]chain.EntryWithHeader, error) {
	var out []chain.EntryWithHeader
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sourceChainBucket).ForEach(func(_, v []byte) error {
			var ewh chain.EntryWithHeader
			if err := decode(v, &ewh); err != nil {
				return err
			}
			out = append(out, ewh)
			return nil
		})
	})
	return out, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
