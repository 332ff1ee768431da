package storage

import (
	"context"
	"sort"
	"sync"

	"mercator-hq/huntquery/pkg/history"
)

// MemoryStorage implements history.Store in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []memoryRecord
	seq     int64
	closed  bool
}

type memoryRecord struct {
	seq    int64
	record history.Record
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends copies of records.
func (s *MemoryStorage) Store(ctx context.Context, records []*history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return closedError("store")
	}
	for _, rec := range records {
		s.seq++
		s.records = append(s.records, memoryRecord{seq: s.seq, record: *rec})
	}
	return nil
}

// Query returns copies of the records matching q, newest first.
func (s *MemoryStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, closedError("query")
	}
	matched := s.matching(q)
	sortNewestFirst(matched)

	if q != nil && q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	results := make([]*history.Record, len(matched))
	for i, m := range matched {
		rec := m.record
		results[i] = &rec
	}
	return results, nil
}

// Latest returns the most recent successful record for a hunt.
func (s *MemoryStorage) Latest(ctx context.Context, pack, huntID string) (*history.Record, error) {
	records, err := s.Query(ctx, &history.Query{
		Pack:   pack,
		HuntID: huntID,
		Status: history.StatusSuccess,
		Limit:  1,
	})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Count returns the number of records matching q.
func (s *MemoryStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, closedError("count")
	}
	return int64(len(s.matching(q))), nil
}

// Delete removes the records matching q.
func (s *MemoryStorage) Delete(ctx context.Context, q *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, closedError("delete")
	}
	kept := s.records[:0]
	var deleted int64
	for _, m := range s.records {
		if matches(&m.record, q) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.records = kept
	return deleted, nil
}

// Trim keeps only the newest keep records.
func (s *MemoryStorage) Trim(ctx context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, closedError("trim")
	}
	if int64(len(s.records)) <= keep {
		return 0, nil
	}

	sorted := append([]memoryRecord(nil), s.records...)
	sortNewestFirst(sorted)

	deleted := int64(len(sorted)) - keep
	s.records = sorted[:keep]
	return deleted, nil
}

// Close releases the records. Later calls fail with history.ErrClosed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func closedError(op string) error {
	return history.NewStorageError(DriverMemory, op, history.ErrClosed)
}

func (s *MemoryStorage) matching(q *history.Query) []memoryRecord {
	var matched []memoryRecord
	for _, m := range s.records {
		if matches(&m.record, q) {
			matched = append(matched, m)
		}
	}
	return matched
}

func matches(rec *history.Record, q *history.Query) bool {
	if q == nil {
		return true
	}
	if q.Pack != "" && rec.Pack != q.Pack {
		return false
	}
	if q.HuntID != "" && rec.HuntID != q.HuntID {
		return false
	}
	if q.Pattern != "" && rec.Pattern != q.Pattern {
		return false
	}
	if q.Status != "" && rec.Status() != q.Status {
		return false
	}
	if q.StartTime != nil && rec.RenderedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && !rec.RenderedAt.Before(*q.EndTime) {
		return false
	}
	if q.ChangedOnly && !rec.Changed {
		return false
	}
	return true
}

func sortNewestFirst(records []memoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.record.RenderedAt.Equal(b.record.RenderedAt) {
			return a.record.RenderedAt.After(b.record.RenderedAt)
		}
		return a.seq > b.seq
	})
}
