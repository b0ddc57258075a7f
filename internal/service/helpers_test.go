// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// fakeBlobStore is an in-memory blob.Store recording deletions.
type fakeBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	failPut bool
	deletes int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Exists(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

func (f *fakeBlobStore) Delete(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if _, ok := f.blobs[key]; !ok {
		return false, nil
	}
	delete(f.blobs, key)
	return true, nil
}

func (f *fakeBlobStore) List() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.blobs))
	for k := range f.blobs {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeBlobStore) ModTime(key string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[key]; !ok {
		return time.Time{}, errors.New("no such blob")
	}
	return time.Now(), nil
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}
