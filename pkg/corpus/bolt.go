package corpus

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	bolt "go.etcd.io/bbolt"
)

var fileModeRW os.FileMode = 0600

// LoadBolt returns every value of bucket as a document, in key order.
// The database is opened read-only.
func LoadBolt(path, bucket string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open corpus db %s: %w", path, err)
	}
	db, err := bolt.Open(path, fileModeRW, &bolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open corpus db %s: %w", path, err)
	}
	defer db.Close()

	var docs []string
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("%w: %q", ErrBucketNotFound, bucket)
		}
		return b.ForEach(func(_, v []byte) error {
			docs = append(docs, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read corpus db %s: %w", path, err)
	}
	log.Debugf("Loaded %d documents from %s[%s]", len(docs), path, bucket)
	return docs, nil
}

// SaveBolt stores docs in bucket under zero-padded sequence keys, replacing
// whatever the bucket held.
func SaveBolt(path, bucket string, docs []string) error {
	if path == "" {
		return ErrEmptyPath
	}
	db, err := bolt.Open(path, fileModeRW, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open corpus db %s: %w", path, err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(bucket)) != nil {
			if err := tx.DeleteBucket([]byte(bucket)); err != nil {
				return fmt.Errorf("reset bucket %q: %w", bucket, err)
			}
		}
		b, err := tx.CreateBucket([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		for i, doc := range docs {
			if err := b.Put([]byte(fmt.Sprintf("%08d", i)), []byte(doc)); err != nil {
				return fmt.Errorf("insert document %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write corpus db %s: %w", path, err)
	}
	return nil
}
