package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// MetaSK là sort key mặc định cho entity metadata rows.
// Các sort key khác phân biệt co-located rows (PROFILE, MEMBER#..., GROUP#...).
const MetaSK = "META"

// Item là raw boundary của single-table store: một row được định danh
// bởi (PK, SK), index theo (EntityType, EntitySK) để list theo kind.
// Attrs giữ toàn bộ payload schema-less; domain code convert sang
// typed struct qua Decode/NewItem.
type Item struct {
	PK         string
	SK         string
	EntityType string
	EntitySK   string
	Attrs      map[string]interface{}
}

// NewItem encode một typed entity thành Item.
func NewItem(pk, sk, entityType, entitySK string, v interface{}) (Item, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Item{}, fmt.Errorf("encode item attrs: %w", err)
	}
	attrs := map[string]interface{}{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return Item{}, fmt.Errorf("decode item attrs: %w", err)
	}
	return Item{PK: pk, SK: sk, EntityType: entityType, EntitySK: entitySK, Attrs: attrs}, nil
}

// Decode unmarshal Attrs vào typed struct.
func (it *Item) Decode(v interface{}) error {
	raw, err := json.Marshal(it.Attrs)
	if err != nil {
		return fmt.Errorf("encode attrs: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode attrs: %w", err)
	}
	return nil
}

// Store là contract của entity store. PostgresStore là implementation
// chính; MemoryStore dùng cho tests.
type Store interface {
	// Get trả về (nil, nil) khi item không tồn tại. Read faults được
	// log và degrade thành not-found, render path không fail vì store.
	Get(ctx context.Context, pk, sk string) (*Item, error)

	// Put là full upsert, không có partial-merge. Callers phải
	// read-modify-write. Write faults propagate.
	Put(ctx context.Context, item Item) error

	// PutIfAbsent insert item chỉ khi (PK, SK) chưa tồn tại.
	// Trả về false khi row đã có, guard cho handle-slug uniqueness.
	PutIfAbsent(ctx context.Context, item Item) (bool, error)

	Delete(ctx context.Context, pk, sk string) error

	// QueryByType page hết by_entity index (reverse order theo
	// entity_sk) rồi apply equality filters in-memory. Không bao giờ
	// trả về partial page; faults degrade thành empty slice.
	QueryByType(ctx context.Context, entityType string, filters map[string]interface{}) ([]Item, error)

	// QueryPrefix liệt kê co-located rows của một partition theo
	// sort-key prefix (membership rows).
	QueryPrefix(ctx context.Context, pk, skPrefix string) ([]Item, error)
}

// matchesFilters áp dụng equality filters lên Attrs.
// Filter cardinality nhỏ (public/pinned/visible booleans) nên
// in-memory filter sau một index scan đã bounded là đủ, trade-off
// có chủ đích, không scale cho high-cardinality predicates.
func matchesFilters(it Item, filters map[string]interface{}) bool {
	for key, want := range filters {
		got, ok := it.Attrs[key]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual so sánh qua JSON normalization: attrs decode ra
// float64/bool/string, filter values có thể là int.
func looseEqual(got, want interface{}) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gf, gok := asFloat(got)
	wf, wok := asFloat(want)
	return gok && wok && gf == wf
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
