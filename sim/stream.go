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

package sim

import (
	"sync"
)

// Stream is the append-only sequence of MetricRecords for a run.
//
// Readers can take a copy of everything so far with Records or Since,
// or they can Subscribe to get records as they are appended.
type Stream struct {
	sync.RWMutex

	records []MetricRecord
	subs    map[int]chan MetricRecord
	next    int
	closed  bool
}

func NewStream() *Stream {
	return &Stream{
		subs: make(map[int]chan MetricRecord),
	}
}

// Append adds a record and offers it to each subscriber.
//
// A subscriber whose buffer is full misses the record.  It can catch
// up with Since.
func (s *Stream) Append(r MetricRecord) {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return
	}

	s.records = append(s.records, r)
	for _, c := range s.subs {
		select {
		case c <- r:
		default:
		}
	}
}

func (s *Stream) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.records)
}

// Records returns a copy of all the records.
func (s *Stream) Records() []MetricRecord {
	return s.Since(0)
}

// Since returns copies of the records with Seq greater than seq.
func (s *Stream) Since(seq int) []MetricRecord {
	s.RLock()
	defer s.RUnlock()

	if seq < 0 {
		seq = 0
	}
	if len(s.records) <= seq {
		return []MetricRecord{}
	}
	acc := make([]MetricRecord, len(s.records)-seq)
	copy(acc, s.records[seq:])
	return acc
}

// Last returns the most recent record.
func (s *Stream) Last() (MetricRecord, bool) {
	s.RLock()
	defer s.RUnlock()
	if len(s.records) == 0 {
		return MetricRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// Subscribe returns a channel that will receive records appended from
// now on.  The channel is closed when the Stream is closed or when the
// returned function is called.
func (s *Stream) Subscribe(buf int) (<-chan MetricRecord, func()) {
	s.Lock()
	defer s.Unlock()

	c := make(chan MetricRecord, buf)
	if s.closed {
		close(c)
		return c, func() {}
	}

	id := s.next
	s.next++
	s.subs[id] = c

	var once sync.Once
	return c, func() {
		once.Do(func() {
			s.Lock()
			defer s.Unlock()
			if c, have := s.subs[id]; have {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close closes all subscriptions.  Later appends are ignored.
func (s *Stream) Close() {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, c := range s.subs {
		delete(s.subs, id)
		close(c)
	}
}

func (s *Stream) Closed() bool {
	s.RLock()
	defer s.RUnlock()
	return s.closed
}
