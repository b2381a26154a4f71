package ccn

import "fmt"

// checkInterests is the debug-only consistency walk (§12.4): the Go
// analogue of ccn_check_interests's magic-sentinel scan. Go's type
// system already rules out a registry slot holding anything but an
// *Interest, so what is left to catch is a record whose magic is not
// interestMagic, i.e. one not built by ExpressInterest (retirement
// does not change magic, so retired records pass); it only runs when
// Config.Debug is set, never on the hot path.
func (h *Handle) checkInterests() {
	if !h.cfg.Debug {
		return
	}
	h.interests.Range(func(_ []byte, v any) bool {
		bucket := v.(*interestBucket)
		for _, it := range bucket.list {
			if it.magic != interestMagic {
				panic(fmt.Sprintf("ccn: corrupted Interest record, magic=%#x", it.magic))
			}
		}
		return true
	})
}
