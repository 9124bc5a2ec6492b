package memory

// table is an insertion-ordered collection of records keyed by id. Records
// are values, so a shallow clone is a full snapshot.
type table[R any] struct {
	order []string
	rows  map[string]R
}

func newTable[R any]() table[R] {
	return table[R]{rows: make(map[string]R)}
}

func (t table[R]) clone() table[R] {
	out := table[R]{order: make([]string, len(t.order)), rows: make(map[string]R, len(t.rows))}
	copy(out.order, t.order)
	for id, r := range t.rows {
		out.rows[id] = r
	}
	return out
}

func (t table[R]) get(id string) (R, bool) {
	r, ok := t.rows[id]
	return r, ok
}

func (t *table[R]) put(id string, r R) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = r
}

// values returns the records in insertion order, never nil.
func (t table[R]) values() []R {
	out := make([]R, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t table[R]) len() int { return len(t.order) }
