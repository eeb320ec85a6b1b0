package storage

import (
	"encoding/json"
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// ReadRecord returns the bytes stored under key. A missing key reports
// found=false with a nil error.
func (d *DB) ReadRecord(key string) (data []byte, found bool, err error) {
	err = d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		found = true
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, classifyBadgerError("read", err)
	}
	return data, found, nil
}

// WriteRecord replaces the record stored under key in a single transaction.
// Readers observe either the previous value or data, never a mix.
func (d *DB) WriteRecord(key string, data []byte) error {
	if err := d.checkSpace(); err != nil {
		return err
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return classifyBadgerError("write", err)
	}
	return nil
}

// DeleteRecord removes key. Deleting a missing key is not an error.
func (d *DB) DeleteRecord(key string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return classifyBadgerError("delete", err)
	}
	return nil
}

// ListByPrefix returns every value whose key starts with prefix, keyed by key.
func (d *DB) ListByPrefix(prefix string) (map[string][]byte, error) {
	results := make(map[string][]byte)
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 100
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			results[string(item.KeyCopy(nil))] = val
		}
		return nil
	})
	if err != nil {
		return nil, classifyBadgerError("list", err)
	}
	return results, nil
}

// GetJSON reads key and unmarshals it into v.
func (d *DB) GetJSON(key string, v any) (bool, error) {
	data, found, err := d.ReadRecord(key)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, errors.Wrapf(errors.ErrDatabaseCorrupted, "decode %s: %v", key, err)
	}
	return true, nil
}

// PutJSON marshals v and writes it under key.
func (d *DB) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.WriteRecord(key, data)
}

// checkSpace refuses writes when the database volume is nearly full.
func (d *DB) checkSpace() error {
	if d.path == "" || d.minFreeSpace == 0 {
		return nil
	}
	return CheckDiskSpace(d.path, d.minFreeSpace)
}

func classifyBadgerError(op string, err error) error {
	switch {
	case isDiskFullError(err):
		return errors.NewSystemErrorWithOp(op, "disk full", errors.ErrDiskFull)
	case stderrors.Is(err, badger.ErrDBClosed):
		return errors.NewSystemErrorWithOp(op, "database closed", errors.ErrStorageUnavailable)
	default:
		return errors.NewSystemErrorWithOp(op, err.Error(), err)
	}
}
