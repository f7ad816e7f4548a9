/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt is a storage.Storage backed by a BoltDB file.
package bolt

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/000alen/nfasim/cmd/simservice/storage"

	bolt "go.etcd.io/bbolt"
)

var presetsBucket = []byte("presets")

type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(presetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func (s *Storage) PutPreset(ctx context.Context, p *storage.Preset) error {
	s.logf("PutPreset %s", p.Name)
	if err := storage.CheckName(p.Name); err != nil {
		return err
	}
	js, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(presetsBucket).Put([]byte(p.Name), js)
	})
}

func (s *Storage) GetPreset(ctx context.Context, name string) (*storage.Preset, error) {
	s.logf("GetPreset %s", name)
	var p *storage.Preset
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(presetsBucket).Get([]byte(name))
		if bs == nil {
			return storage.NotFound
		}
		p = &storage.Preset{}
		return json.Unmarshal(bs, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) RemPreset(ctx context.Context, name string) error {
	s.logf("RemPreset %s", name)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(presetsBucket)
		key := []byte(name)
		if b.Get(key) == nil {
			return storage.NotFound
		}
		return b.Delete(key)
	})
}

// ListPresets returns names in Bolt's key order, which is ascending
// by bytes.
func (s *Storage) ListPresets(ctx context.Context) ([]string, error) {
	acc := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(presetsBucket).ForEach(func(k, _ []byte) error {
			acc = append(acc, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.logf("ListPresets found %d", len(acc))
	return acc, nil
}
