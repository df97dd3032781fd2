package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (creating if needed) a bbolt file at path.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketCredentials)); err != nil {
			return err
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(BucketDrafts)); err != nil {
			return err
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Get(bucket, key string) ([]byte, error) {
	var value []byte

	err := b.storage.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return ErrNotFound
		}

		v := bkt.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// v is only valid for the life of the transaction
		value = append([]byte(nil), v...)

		return nil
	})

	return value, err
}

func (b *Bolt) Put(bucket, key string, value []byte) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}

		return bkt.Put([]byte(key), value)
	})
}

func (b *Bolt) Delete(bucket, key string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return nil
		}

		return bkt.Delete([]byte(key))
	})
}

func (b *Bolt) Close() error {
	return b.storage.Close()
}
