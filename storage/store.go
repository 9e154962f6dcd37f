// Package storage persists bridge congestion state between runs using a
// bolt database. Keys follow a two-level prefix scheme: the bucket is the
// component prefix and every key carries a map prefix, so all values of
// one logical map share a common, scannable prefix.
package storage

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"github.com/ethereum/go-ethereum/common"

	"bridgeControl/fees/feefactor"
	"bridgeControl/utils"
)

// component prefix (bucket name)
var bucketBridgeCongestion = []byte("bridgeCongestion")

// map prefixes within the bucket
var (
	prefixBridgeState = []byte("bridgeState:")
	prefixSuspended   = []byte("suspended:")
)

// sentinel value marking presence in the suspension set
var suspendedSentinel = []byte{0x01}

// Store wraps the bolt database holding congestion snapshots.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBridgeCongestion)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func bridgeStateKey(lane utils.LaneID) []byte {
	return append(append([]byte{}, prefixBridgeState...), lane[:]...)
}

func suspendedKey(h common.Hash) []byte {
	return append(append([]byte{}, prefixSuspended...), h[:]...)
}

// SaveBridgeState writes the congestion record for a lane.
func (s *Store) SaveBridgeState(lane utils.LaneID, state feefactor.BridgeState) error {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(state); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBridgeCongestion).Put(bridgeStateKey(lane), buff.Bytes())
	})
}

// LoadBridgeState reads the congestion record for a lane. An absent key
// yields the default state {false, 1.0}, matching the implicit-creation
// lifecycle of the record.
func (s *Store) LoadBridgeState(lane utils.LaneID) (feefactor.BridgeState, error) {
	state := feefactor.DefaultBridgeState()
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketBridgeCongestion).Get(bridgeStateKey(lane))
		if data == nil {
			return nil
		}
		return gob.NewDecoder(bytes.NewReader(data)).Decode(&state)
	})
	return state, err
}

// SaveSuspended replaces the persisted suspension set with the given
// snapshot.
func (s *Store) SaveSuspended(hashes []common.Hash) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBridgeCongestion)

		// drop the existing set
		c := b.Cursor()
		for k, _ := c.Seek(prefixSuspended); k != nil && bytes.HasPrefix(k, prefixSuspended); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		for _, h := range hashes {
			if err := b.Put(suspendedKey(h), suspendedSentinel); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSuspended returns the persisted suspension set.
func (s *Store) LoadSuspended() ([]common.Hash, error) {
	var hashes []common.Hash
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketBridgeCongestion).Cursor()
		for k, _ := c.Seek(prefixSuspended); k != nil && bytes.HasPrefix(k, prefixSuspended); k, _ = c.Next() {
			hashes = append(hashes, common.BytesToHash(k[len(prefixSuspended):]))
		}
		return nil
	})
	return hashes, err
}
