package ccn

import "time"

// staleAfter is the "more than 30s in the past" threshold age_interest
// uses to heal an Interest's last_time instead of letting delta
// overflow (§4.7, §8 boundary behavior).
const staleAfter = 30 * time.Second

// ProcessScheduledOperations is C7's periodic pass: age every
// Interest, sweep retired entries, and return the microseconds until
// next work (§4.7).
func (h *Handle) ProcessScheduledOperations() int64 {
	h.running++
	defer func() { h.running-- }()

	h.checkInterests()

	h.refreshUs = 5 * h.cfg.LifetimeUs
	now := h.now()

	if h.outputPending() {
		return h.refreshUs
	}

	anyEmpty := false
	h.interests.Range(func(_ []byte, v any) bool {
		bucket := v.(*interestBucket)
		for _, it := range bucket.list {
			h.checkPubArrival(it)
			if it.target != 0 {
				h.ageInterest(it, now)
			}
		}
		if h.sweepBucket(bucket) {
			anyEmpty = true
		}
		return true
	})

	if anyEmpty {
		h.sweepEmptyBuckets()
	}

	return h.refreshUs
}

// sweepBucket removes retired records (nil interestMsg) from bucket's
// list in place and reports whether the bucket is now empty.
func (h *Handle) sweepBucket(bucket *interestBucket) bool {
	live := bucket.list[:0]
	for _, it := range bucket.list {
		if it.interestMsg != nil {
			live = append(live, it)
		}
	}
	bucket.list = live
	return len(bucket.list) == 0
}

// sweepEmptyBuckets deletes registry entries whose bucket has gone
// empty. Only called after the iteration that spotted it has fully
// unwound (§9 "Self-referential Interest list via next").
func (h *Handle) sweepEmptyBuckets() {
	var empty [][]byte
	h.interests.Range(func(key []byte, v any) bool {
		if len(v.(*interestBucket).list) == 0 {
			empty = append(empty, append([]byte(nil), key...))
		}
		return true
	})
	for _, key := range empty {
		h.interests.Delete(key)
	}
}

// ageInterest updates one Interest's clock and decides whether it
// needs retransmission or has timed out (§4.7).
func (h *Handle) ageInterest(it *Interest, now time.Time) {
	if it.lastTime.IsZero() {
		// Never sent; refreshInterest will handle the first send.
	} else if now.Sub(it.lastTime) > staleAfter {
		it.outstanding = 0
		it.lastTime = now.Add(-staleAfter)
	}

	deltaUs := now.Sub(it.lastTime).Microseconds()
	if !it.lastTime.IsZero() && deltaUs >= h.cfg.LifetimeUs {
		it.outstanding = 0
		if deltaUs < 0 {
			deltaUs = 0
		}
	}

	if remaining := h.cfg.LifetimeUs - deltaUs; remaining < h.refreshUs {
		h.refreshUs = remaining
	}

	if !it.lastTime.IsZero() {
		it.lastTime = now.Add(-time.Duration(deltaUs) * time.Microsecond)
	}

	if it.target > 0 && it.outstanding == 0 {
		if it.lastTime.IsZero() {
			h.refreshInterest(it)
			return
		}
		result := it.action.invoke(&UpcallInfo{
			Handle:      h,
			Kind:        KindInterestTimedOut,
			Msg:         it.interestMsg,
			PubInterest: it,
		})
		if result == ResultReexpress {
			h.refreshInterest(it)
		} else {
			h.retireInterest(it)
		}
	}
}

// refreshInterest submits interestMsg via C2 if it isn't already
// outstanding, bumping outstanding and last_time on success (§4.7).
func (h *Handle) refreshInterest(it *Interest) {
	if it.outstanding >= it.target {
		return
	}
	if it.interestMsg == nil {
		return
	}
	if _, err := h.Put(it.interestMsg); err != nil {
		return
	}
	it.outstanding++
	it.lastTime = h.now()
}
