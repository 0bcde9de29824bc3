// Package bounded provides a FIFO list whose capacity is part of its type,
// so no value of the type can ever hold more than its limit, including one
// decoded from JSON.
package bounded

import "encoding/json"

// Limit supplies the capacity of a List. Implementations are zero-size types:
//
//	type tenItems struct{}
//	func (tenItems) Limit() int { return 10 }
type Limit interface {
	Limit() int
}

// List keeps at most L.Limit() items, dropping the oldest on overflow.
// The zero value is an empty list ready to use.
type List[T any, L Limit] struct {
	items []T
}

// Of builds a list from items, keeping only the newest Limit() of them.
func Of[T any, L Limit](items ...T) List[T, L] {
	var l List[T, L]
	for _, it := range items {
		l.Push(it)
	}
	return l
}

// Cap returns the list's fixed capacity.
func (l *List[T, L]) Cap() int {
	var lim L
	return lim.Limit()
}

// Len returns the number of items held.
func (l *List[T, L]) Len() int { return len(l.items) }

// Push appends v as the newest item, evicting the oldest if the list is full.
func (l *List[T, L]) Push(v T) {
	limit := l.Cap()
	if limit <= 0 {
		return
	}
	if len(l.items) >= limit {
		// Shift down rather than reslicing so the backing array does not grow.
		copy(l.items, l.items[len(l.items)-limit+1:])
		l.items = l.items[:limit-1]
	}
	l.items = append(l.items, v)
}

// Items returns a copy of the items, oldest first.
func (l *List[T, L]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Last returns the newest item.
func (l *List[T, L]) Last() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// Index returns the position of the first item matching pred, or -1.
func (l *List[T, L]) Index(pred func(T) bool) int {
	for i, it := range l.items {
		if pred(it) {
			return i
		}
	}
	return -1
}

// Touch removes the item at i, applies fn to it and pushes it back as the
// newest item. It is a no-op when i is out of range.
func (l *List[T, L]) Touch(i int, fn func(*T)) {
	if i < 0 || i >= len(l.items) {
		return
	}
	it := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	if fn != nil {
		fn(&it)
	}
	l.items = append(l.items, it)
}

// Clone returns an independent copy of the list. Items are copied shallowly.
func (l List[T, L]) Clone() List[T, L] {
	return List[T, L]{items: append([]T(nil), l.items...)}
}

// MarshalJSON encodes the list as a JSON array, oldest first.
func (l List[T, L]) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// UnmarshalJSON decodes a JSON array, keeping only the newest Limit() items.
func (l *List[T, L]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = Of[T, L](items...)
	return nil
}
