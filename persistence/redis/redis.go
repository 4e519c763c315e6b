// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package redis provides a Store implementation backed by Redis. Each record
// lives in a hash keyed by the entity key; conditional saves run a Lua
// compare-and-set script so version checks are atomic server-side.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tochemey/silo/persistence"
)

const keyPrefix = "silo:"

const (
	scriptVersionMismatch = -1
	scriptKeyExists       = -2
)

// saveScript performs the conditional write. KEYS[1] is the record hash key;
// ARGV[1] the expected version, ARGV[2] the payload, ARGV[3] the timestamp.
// It returns the new version on success, -1 on version mismatch and -2 when
// a create-only write hits an existing key.
var saveScript = goredis.NewScript(`
local key = KEYS[1]
local expected = tonumber(ARGV[1])
local data = ARGV[2]
local ts = ARGV[3]

local version = redis.call('HGET', key, 'version')
if not version then
	if expected ~= 0 then
		return -1
	end
	redis.call('HSET', key, 'data', data, 'version', 1, 'updated_at', ts)
	return 1
end

version = tonumber(version)
if expected == 0 then
	return -2
end
if version ~= expected then
	return -1
end

local next = expected + 1
redis.call('HSET', key, 'data', data, 'version', next, 'updated_at', ts)
return next
`)

// Store implements persistence.Store on top of a Redis client.
type Store struct {
	client goredis.UniversalClient
}

// enforce compilation error
var _ persistence.Store = (*Store)(nil)

// NewStore creates a Store from an existing Redis client. The caller keeps
// ownership of client configuration; Close closes the client.
func NewStore(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Ping verifies the connection to the Redis server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load retrieves the latest snapshot for the given key.
func (s *Store) Load(ctx context.Context, key persistence.Key) (*persistence.Record, error) {
	fields, err := s.client.HGetAll(ctx, recordKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, persistence.ErrKeyNotFound
	}

	version, err := strconv.ParseUint(fields["version"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupted version for key=%s: %w", key.String(), err)
	}
	// updated_at may be missing on records written by older revisions
	timestamp, _ := strconv.ParseUint(fields["updated_at"], 10, 64)

	return &persistence.Record{
		Key:            key,
		Data:           []byte(fields["data"]),
		Version:        version,
		TimestampMilli: timestamp,
	}, nil
}

// Save conditionally writes a snapshot through the compare-and-set script.
func (s *Store) Save(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	result, err := saveScript.Run(
		ctx,
		s.client,
		[]string{recordKey(record.Key)},
		expectedVersion,
		record.Data,
		time.Now().UnixMilli(),
	).Int64()
	if err != nil {
		return 0, err
	}

	switch result {
	case scriptVersionMismatch:
		return 0, persistence.ErrVersionMismatch
	case scriptKeyExists:
		return 0, persistence.ErrKeyExists
	default:
		return uint64(result), nil
	}
}

// Delete removes the snapshot for the given key. Deleting a missing key is
// a no-op.
func (s *Store) Delete(ctx context.Context, key persistence.Key) error {
	return s.client.Del(ctx, recordKey(key)).Err()
}

// Exists checks whether a snapshot exists for the given key.
func (s *Store) Exists(ctx context.Context, key persistence.Key) (bool, error) {
	count, err := s.client.Exists(ctx, recordKey(key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func recordKey(key persistence.Key) string {
	return keyPrefix + key.String()
}
