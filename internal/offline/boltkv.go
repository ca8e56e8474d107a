package offline

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("items")

// BoltKV is a KeyValue backed by a single bbolt bucket. Each call runs in
// its own bbolt transaction.
type BoltKV struct {
	db *bbolt.DB
}

// OpenBoltKV opens (or creates) a bbolt file at path.
func OpenBoltKV(path string) (*BoltKV, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt kv: open: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt kv: create bucket: %w", err)
	}

	return &BoltKV{db: db}, nil
}

// Available reports whether the database handle is open.
func (b *BoltKV) Available() bool {
	return b != nil && b.db != nil
}

// Close closes the database.
func (b *BoltKV) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltKV) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", boltBucket)
		}
		// bbolt values are only valid inside the transaction
		if v := bucket.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt kv: get %q: %w", key, err)
	}
	return value, found, nil
}

func (b *BoltKV) Set(key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", boltBucket)
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt kv: set %q: %w", key, err)
	}
	return nil
}

func (b *BoltKV) Remove(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", boltBucket)
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt kv: remove %q: %w", key, err)
	}
	return nil
}
