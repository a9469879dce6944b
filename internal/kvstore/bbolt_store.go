// Copyright 2025 The kvfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kvstore

import (
	"fmt"

	"github.com/nicolagi-labs/kvfs/internal/ids"
	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bbolt bucket holding every record and blob.
// There is no need for more than one bucket: the key space (node meta ids
// and data blob ids) is already disjoint by construction, since both are
// drawn from the same 128-bit identifier space via ids.New.
var bucketName = []byte("kvfs")

// BoltStore is a Store backed by a single bbolt database file. bbolt has
// no native append operation, so Append is implemented as a
// read-modify-write inside one read-write transaction; this keeps it a
// single call from the perspective of callers, matching the adapter
// contract the rest of the filesystem is written against.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path and
// ensures the kvfs bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kvstore: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key ids.ID) (value []byte, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key[:])
		if v == nil {
			return ErrNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (s *BoltStore) GetSize(key ids.ID) (size int, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key[:])
		if v == nil {
			return ErrNotFound
		}
		size = len(v)
		return nil
	})
	return size, err
}

func (s *BoltStore) Put(key ids.ID, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key[:], value)
	})
}

func (s *BoltStore) Append(key ids.ID, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		existing := b.Get(key[:])
		merged := make([]byte, 0, len(existing)+len(value))
		merged = append(merged, existing...)
		merged = append(merged, value...)
		return b.Put(key[:], merged)
	})
}

func (s *BoltStore) Delete(key ids.ID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key[:])
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
