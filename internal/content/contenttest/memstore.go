// Package contenttest provides an in-memory content.Store for tests.
package contenttest

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/content"

	"go.mongodb.org/mongo-driver/bson"
)

// MemStore keeps documents as bson.M and decodes them through BSON, so field
// names and types behave as they would against MongoDB. Only equality
// filters on top-level fields are supported.
type MemStore[T any] struct {
	mu    sync.Mutex
	docs  map[string]bson.M
	clock time.Time

	// Err, when set, is returned by every call.
	Err error

	FindCalls   int
	WriteCalls  int
	ExistsCalls int
}

func NewMemStore[T any]() *MemStore[T] {
	return &MemStore[T]{
		docs:  make(map[string]bson.M),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing server time.
func (s *MemStore[T]) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemStore[T]) Find(ctx context.Context, q content.Query) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	var matched []bson.M
	for _, doc := range s.docs {
		if matches(doc, q.Filter) {
			matched = append(matched, doc)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q.Sort)
	})
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}

	items := make([]T, 0, len(matched))
	for _, doc := range matched {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MemStore[T]) Exists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExistsCalls++
	if s.Err != nil {
		return false, s.Err
	}
	return len(s.docs) > 0, nil
}

func (s *MemStore[T]) Insert(ctx context.Context, id string, fields bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WriteCalls++
	if s.Err != nil {
		return s.Err
	}
	now := s.tick()
	doc := bson.M{"_id": id, "createdAt": now, "updatedAt": now}
	for path, v := range fields {
		setPath(doc, path, v)
	}
	s.docs[id] = doc
	return nil
}

func (s *MemStore[T]) Update(ctx context.Context, id string, fields bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WriteCalls++
	if s.Err != nil {
		return s.Err
	}
	doc, ok := s.docs[id]
	if !ok {
		return content.ErrNotFound
	}
	for path, v := range fields {
		setPath(doc, path, v)
	}
	doc["updatedAt"] = s.tick()
	return nil
}

func (s *MemStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WriteCalls++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.docs[id]; !ok {
		return content.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// Raw returns the stored document for assertions.
func (s *MemStore[T]) Raw(id string) (bson.M, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Seed stores fields under id without touching the call counters.
func (s *MemStore[T]) Seed(id string, fields bson.M) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	doc := bson.M{"_id": id, "createdAt": now, "updatedAt": now}
	for path, v := range fields {
		setPath(doc, path, v)
	}
	s.docs[id] = doc
}

func (s *MemStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func less(a, b bson.M, order bson.D) bool {
	for _, e := range order {
		dir, _ := e.Value.(int)
		c := compare(a[e.Key], b[e.Key])
		if c == 0 {
			continue
		}
		if dir < 0 {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compare(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case int:
		bv, _ := b.(int)
		return av - bv
	}
	return 0
}

func setPath(doc bson.M, path string, v any) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next := toM(cur[p])
		cur[p] = next
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// toM converts a stored sub-document (struct or map) into a bson.M so that
// dotted writes keep its sibling fields.
func toM(v any) bson.M {
	switch m := v.(type) {
	case bson.M:
		return m
	case nil:
		return bson.M{}
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return bson.M{}
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return bson.M{}
	}
	return out
}
