package ccn

// SetInterestFilter is C5's operation: upsert under the full encoded
// name key. A nil action removes an existing entry and releases its
// prior capability; the filter registry never holds an entry with a
// nil action (§3 invariant) — absence of an entry is how "no filter"
// is represented.
func (h *Handle) SetInterestFilter(name []byte, action *Action) {
	key := append([]byte(nil), name...)

	if action == nil {
		if v, ok := h.filters.Get(key); ok {
			prior := v.(*Action)
			h.filters.Delete(key)
			prior.Release(h)
		}
		return
	}

	if v, ok := h.filters.Get(key); ok {
		v.(*Action).Release(h)
	}
	h.filters.Set(key, action)
}
