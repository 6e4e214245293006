package engine

// handleTable stores values in a dense slice indexed by handle, with a
// free list for reuse. Handle 0 is reserved and never issued, so a
// zero-valued id is always invalid.
type handleTable[T any] struct {
	entries  []tableEntry[T]
	freeList []int32
}

type tableEntry[T any] struct {
	value T
	valid bool
}

func (t *handleTable[T]) add(v T) int32 {
	e := tableEntry[T]{value: v, valid: true}

	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return int32(len(t.entries))
}

func (t *handleTable[T]) get(h int32) (T, bool) {
	var zero T
	if h <= 0 || int(h) > len(t.entries) {
		return zero, false
	}
	e := t.entries[h-1]
	if !e.valid {
		return zero, false
	}
	return e.value, true
}

func (t *handleTable[T]) remove(h int32) (T, bool) {
	var zero T
	if h <= 0 || int(h) > len(t.entries) {
		return zero, false
	}
	e := &t.entries[h-1]
	if !e.valid {
		return zero, false
	}
	v := e.value
	e.valid = false
	e.value = zero
	t.freeList = append(t.freeList, h)
	return v, true
}

// each visits live entries in handle order.
func (t *handleTable[T]) each(fn func(h int32, v T) bool) {
	for i := range t.entries {
		if !t.entries[i].valid {
			continue
		}
		if !fn(int32(i+1), t.entries[i].value) {
			return
		}
	}
}
