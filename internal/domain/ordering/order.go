package ordering

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by Swap when a position is outside the list.
var ErrIndexOutOfRange = errors.New("index out of range")

// OrderList is the persisted display order of a parent's children.
// It may briefly reference ids that were deleted; readers go through Resolve.
type OrderList []string

// InsertAt inserts id at index, clamped into [0, len]. A nil index appends.
func (o OrderList) InsertAt(id string, index *int) OrderList {
	at := len(o)
	if index != nil {
		at = *index
	}
	if at < 0 {
		at = 0
	}
	if at > len(o) {
		at = len(o)
	}

	out := make(OrderList, 0, len(o)+1)
	out = append(out, o[:at]...)
	out = append(out, id)
	out = append(out, o[at:]...)
	return out
}

// RemoveIfPresent drops the first occurrence of id. The bool reports whether
// anything was removed.
func (o OrderList) RemoveIfPresent(id string) (OrderList, bool) {
	for i, v := range o {
		if v == id {
			out := make(OrderList, 0, len(o)-1)
			out = append(out, o[:i]...)
			out = append(out, o[i+1:]...)
			return out, true
		}
	}
	return o, false
}

// Swap exchanges the ids at positions i and j. The receiver is never modified.
func (o OrderList) Swap(i, j int) (OrderList, error) {
	if i < 0 || j < 0 || i >= len(o) || j >= len(o) {
		return o, fmt.Errorf("swap %d, %d not in range 0..%d: %w", i, j, len(o)-1, ErrIndexOutOfRange)
	}
	out := o.Clone()
	out[i], out[j] = out[j], out[i]
	return out, nil
}

func (o OrderList) Contains(id string) bool {
	for _, v := range o {
		if v == id {
			return true
		}
	}
	return false
}

func (o OrderList) Clone() OrderList {
	if o == nil {
		return OrderList{}
	}
	out := make(OrderList, len(o))
	copy(out, o)
	return out
}

// Resolve returns records in list order. Ids without a record are skipped,
// duplicates keep their first position, and records the list does not mention
// are appended in their incoming order.
func Resolve[T any](order OrderList, records []T, id func(T) string) []T {
	byID := make(map[string]T, len(records))
	for _, r := range records {
		byID[id(r)] = r
	}

	out := make([]T, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, key := range order {
		r, ok := byID[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	for _, r := range records {
		key := id(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// Value implements driver.Valuer; the list is stored as a JSON array.
func (o OrderList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (o *OrderList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*o = OrderList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("ordering: cannot scan %T into OrderList", value)
	}
	if len(raw) == 0 {
		*o = OrderList{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("ordering: decode order list: %w", err)
	}
	*o = OrderList(ids)
	return nil
}
