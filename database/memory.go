package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryDatabase is an in-process document store used in development and tests.
// Documents are normalised through bson so that decoding behaves like the mongo
// driver.
type MemoryDatabase struct {
	mu          sync.Mutex
	collections map[string]*MemoryCollection
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{collections: make(map[string]*MemoryCollection)}
}

func (m *MemoryDatabase) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[name]
	if !ok {
		col = &MemoryCollection{}
		m.collections[name] = col
	}
	return col
}

type MemoryCollection struct {
	mu   sync.RWMutex
	docs []bson.M
}

func (c *MemoryCollection) FindOne(_ context.Context, filter bson.M, out any) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return false, err
		}
		if ok {
			return true, decodeInto(doc, out)
		}
	}
	return false, nil
}

func (c *MemoryCollection) Find(_ context.Context, filter bson.M, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	found := bson.A{}
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return err
		}
		if ok {
			found = append(found, doc)
		}
	}
	raw, err := bson.Marshal(bson.M{"items": found})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("items").Unmarshal(out)
}

func (c *MemoryCollection) Insert(_ context.Context, docs ...any) error {
	normalised := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		m, err := toDocument(doc)
		if err != nil {
			return err
		}
		if _, ok := m["_id"]; !ok {
			m["_id"] = bson.NewObjectID().Hex()
		}
		normalised = append(normalised, m)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range normalised {
		for _, existing := range c.docs {
			if equalValues(existing["_id"], m["_id"]) {
				return fmt.Errorf("%w: _id %v", ErrDuplicateKey, m["_id"])
			}
		}
	}
	c.docs = append(c.docs, normalised...)
	return nil
}

func (c *MemoryCollection) Update(_ context.Context, filter bson.M, update bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var matched int64
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return matched, err
		}
		if !ok {
			continue
		}
		if err := applyUpdate(doc, update); err != nil {
			return matched, err
		}
		matched++
	}
	return matched, nil
}

func (c *MemoryCollection) Remove(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]bson.M, 0, len(c.docs))
	var removed int64
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return removed, nil
}

func toDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return m, nil
}

func toValue(v any) (any, error) {
	m, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func decodeInto(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, want := range filter {
		got, present := doc[key]
		if ops, ok := asOperators(want); ok {
			for op, arg := range ops {
				switch op {
				case "$in":
					candidates, ok := asSlice(arg)
					if !ok {
						return false, fmt.Errorf("$in requires an array, got %T", arg)
					}
					hit := false
					for _, candidate := range candidates {
						if present && valueMatches(got, candidate) {
							hit = true
							break
						}
					}
					if !hit {
						return false, nil
					}
				case "$exists":
					if exists, _ := arg.(bool); exists != present {
						return false, nil
					}
				default:
					return false, fmt.Errorf("unsupported filter operator %s", op)
				}
			}
			continue
		}
		if !present {
			if want != nil {
				return false, nil
			}
			continue
		}
		if !valueMatches(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func asOperators(v any) (bson.M, bool) {
	var m map[string]any
	switch t := v.(type) {
	case bson.M:
		m = t
	case map[string]any:
		m = t
	default:
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return nil, false
		}
	}
	return bson.M(m), true
}

// valueMatches mirrors mongo equality: an array field matches when any member does.
func valueMatches(got, want any) bool {
	if equalValues(got, want) {
		return true
	}
	if items, ok := asSlice(got); ok {
		for _, item := range items {
			if equalValues(item, want) {
				return true
			}
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	if _, ok := toFloat(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asSlice(v any) ([]any, bool) {
	if a, ok := v.(bson.A); ok {
		return a, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func applyUpdate(doc bson.M, update bson.M) error {
	for op, arg := range update {
		set, isMap := toMap(arg)
		if !isMap {
			return fmt.Errorf("update operator %s requires a document", op)
		}
		for key, raw := range set {
			value, err := toValue(raw)
			if err != nil {
				return err
			}
			switch op {
			case "$set":
				doc[key] = value
			case "$push":
				items, _ := asSlice(doc[key])
				doc[key] = append(bson.A(items), value)
			case "$pull":
				items, _ := asSlice(doc[key])
				kept := bson.A{}
				for _, item := range items {
					if !equalValues(item, value) {
						kept = append(kept, item)
					}
				}
				doc[key] = kept
			default:
				return fmt.Errorf("unsupported update operator %s", op)
			}
		}
	}
	return nil
}

func toMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return t, true
	}
	return nil, false
}
