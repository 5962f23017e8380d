package store

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process memory. It is not durable and is
// meant for local development and tests.
type MemoryStore struct {
	mu   sync.Mutex
	view *memoryView
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns an empty store stamping documents with now().
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{view: &memoryView{
		collections: map[string]*memoryCollection{},
		now:         now,
	}}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Get(ctx, collection, id, out)
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.List(ctx, collection, q, out)
}

func (s *MemoryStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Add(ctx, collection, doc)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Update(ctx, collection, id, fields)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Set(ctx, collection, id, doc, merge)
}

func (s *MemoryStore) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Remove(ctx, collection, id)
}

// RunInTransaction runs fn against a private snapshot and swaps it in only
// when fn succeeds. The store stays locked for the duration of fn.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.view.clone()
	if err != nil {
		return err
	}
	if err := fn(ctx, snapshot); err != nil {
		return err
	}
	s.view = snapshot
	return nil
}

type memoryCollection struct {
	docs  map[string]bson.M
	order []string // insertion order
}

// memoryView is the unlocked store implementation shared by the live data
// and transaction snapshots.
type memoryView struct {
	collections map[string]*memoryCollection
	now         func() time.Time
}

func (v *memoryView) collection(name string) *memoryCollection {
	c, ok := v.collections[name]
	if !ok {
		c = &memoryCollection{docs: map[string]bson.M{}}
		v.collections[name] = c
	}
	return c
}

func (v *memoryView) clone() (*memoryView, error) {
	cp := &memoryView{collections: make(map[string]*memoryCollection, len(v.collections)), now: v.now}
	for name, c := range v.collections {
		nc := &memoryCollection{
			docs:  make(map[string]bson.M, len(c.docs)),
			order: append([]string(nil), c.order...),
		}
		for id, doc := range c.docs {
			d, err := toDocument(doc)
			if err != nil {
				return nil, err
			}
			nc.docs[id] = d
		}
		cp.collections[name] = nc
	}
	return cp, nil
}

func (v *memoryView) Get(_ context.Context, collection, id string, out any) error {
	doc, ok := v.collection(collection).docs[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return fromDocument(doc, out)
}

func (v *memoryView) List(_ context.Context, collection string, q Query, out any) error {
	slice := reflect.ValueOf(out)
	if slice.Kind() != reflect.Pointer || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("list %s: out must be a pointer to a slice, got %T", collection, out)
	}

	where := bson.M{}
	if len(q.Where) > 0 {
		var err error
		if where, err = toDocument(bson.M(q.Where)); err != nil {
			return err
		}
	}

	c := v.collection(collection)
	var matched []bson.M
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, where) {
			matched = append(matched, doc)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][q.OrderBy], matched[j][q.OrderBy])
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	result := reflect.MakeSlice(slice.Elem().Type(), 0, len(matched))
	elemType := slice.Elem().Type().Elem()
	for _, doc := range matched {
		elem := reflect.New(elemType)
		if err := fromDocument(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Elem().Set(result)
	return nil
}

func (v *memoryView) Add(_ context.Context, collection string, doc any) (string, error) {
	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = NewID()
	}
	c := v.collection(collection)
	if _, exists := c.docs[id]; exists {
		return "", fmt.Errorf("%s/%s: %w", collection, id, ErrDuplicate)
	}

	now := timestamp(v.now())
	m["_id"] = id
	m["createdAt"] = now
	m["updatedAt"] = now
	c.docs[id] = m
	c.order = append(c.order, id)
	return id, nil
}

func (v *memoryView) Update(_ context.Context, collection, id string, fields map[string]any) error {
	doc, ok := v.collection(collection).docs[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	normalized := bson.M{}
	if len(fields) > 0 {
		var err error
		if normalized, err = toDocument(bson.M(fields)); err != nil {
			return err
		}
	}
	for k, val := range normalized {
		if k == "_id" || k == "createdAt" {
			continue
		}
		doc[k] = val
	}
	doc["updatedAt"] = timestamp(v.now())
	return nil
}

func (v *memoryView) Set(_ context.Context, collection, id string, doc any, merge bool) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	c := v.collection(collection)
	now := timestamp(v.now())
	existing, exists := c.docs[id]

	if merge && exists {
		for k, val := range m {
			if k == "_id" || k == "createdAt" {
				continue
			}
			existing[k] = val
		}
		existing["updatedAt"] = now
		return nil
	}

	created := any(now)
	if exists {
		created = existing["createdAt"]
	} else if ts, ok := m["createdAt"]; ok {
		created = ts
	}
	m["_id"] = id
	m["createdAt"] = created
	m["updatedAt"] = now
	c.docs[id] = m
	if !exists {
		c.order = append(c.order, id)
	}
	return nil
}

func (v *memoryView) Remove(_ context.Context, collection, id string) error {
	c := v.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// RunInTransaction on a snapshot joins the enclosing transaction.
func (v *memoryView) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, v)
}

func matches(doc, where bson.M) bool {
	for k, want := range where {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// compareValues orders the scalar types produced by bson normalization.
// Missing values sort first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

