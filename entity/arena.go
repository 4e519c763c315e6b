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

package entity

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// arenaShardCount must stay a power of two so the hash can be masked
// instead of divided.
const arenaShardCount = 32

// arena indexes every resident entity process by its identity string.
// Lookups are spread over xxh3-hashed shards so unrelated identities never
// contend on the same lock.
type arena struct {
	shards [arenaShardCount]arenaShard
}

type arenaShard struct {
	mu        sync.RWMutex
	processes map[string]*pid
}

func newArena() *arena {
	a := new(arena)
	for i := range a.shards {
		a.shards[i].processes = make(map[string]*pid)
	}
	return a
}

func (a *arena) shardFor(key string) *arenaShard {
	return &a.shards[xxh3.HashString(key)&(arenaShardCount-1)]
}

// Get retrieves a process by its identity string.
func (a *arena) Get(key string) (*pid, bool) {
	shard := a.shardFor(key)
	shard.mu.RLock()
	process, ok := shard.processes[key]
	shard.mu.RUnlock()
	return process, ok
}

// Set registers a process under its identity string.
func (a *arena) Set(key string, process *pid) {
	shard := a.shardFor(key)
	shard.mu.Lock()
	shard.processes[key] = process
	shard.mu.Unlock()
}

// Delete removes a process from the arena.
func (a *arena) Delete(key string) {
	shard := a.shardFor(key)
	shard.mu.Lock()
	delete(shard.processes, key)
	shard.mu.Unlock()
}

// Len returns the number of resident processes.
func (a *arena) Len() int {
	total := 0
	for i := range a.shards {
		shard := &a.shards[i]
		shard.mu.RLock()
		total += len(shard.processes)
		shard.mu.RUnlock()
	}
	return total
}

// List returns every resident process. The slice is a point-in-time copy;
// callers iterate it without holding any shard lock.
func (a *arena) List() []*pid {
	out := make([]*pid, 0, a.Len())
	for i := range a.shards {
		shard := &a.shards[i]
		shard.mu.RLock()
		for _, process := range shard.processes {
			out = append(out, process)
		}
		shard.mu.RUnlock()
	}
	return out
}

// Reset drops every process from the arena.
func (a *arena) Reset() {
	for i := range a.shards {
		shard := &a.shards[i]
		shard.mu.Lock()
		shard.processes = make(map[string]*pid)
		shard.mu.Unlock()
	}
}
