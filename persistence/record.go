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

package persistence

// Record represents a single persisted entity state snapshot.
//
// Only the latest snapshot is kept per Key. The Version supports optimistic
// concurrency control: each successful write increments it, and conditional
// writes reject stale versions with ErrVersionMismatch.
type Record struct {
	// Key uniquely identifies the entity whose state this record holds.
	Key Key
	// Data is the opaque serialized entity state.
	Data []byte
	// Version specifies the state version number. It starts at 1 on the
	// first successful save and increments on every subsequent save.
	Version uint64
	// TimestampMilli specifies the last write timestamp in milliseconds.
	TimestampMilli uint64
}

// Copy returns a deep copy of the record. Stores hand out copies so callers
// can never mutate cached state in place.
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}
	data := make([]byte, len(r.Data))
	copy(data, r.Data)
	return &Record{
		Key:            r.Key,
		Data:           data,
		Version:        r.Version,
		TimestampMilli: r.TimestampMilli,
	}
}
