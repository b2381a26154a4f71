package ccn

// UpcallKind identifies why the library is invoking a client's Action.
type UpcallKind int

const (
	// KindFinal fires exactly once, when the last reference to an
	// Action's capability drops.
	KindFinal UpcallKind = iota
	// KindInterest fires on an arriving Interest matching a filter.
	KindInterest
	// KindConsumedInterest fires for every filter match after one
	// filter on the same message already returned ResultInterestConsumed.
	KindConsumedInterest
	// KindContent fires on a ContentObject whose signature verified.
	KindContent
	// KindContentUnverified fires when no key was available to verify.
	KindContentUnverified
	// KindContentBad fires when verification was attempted and failed.
	KindContentBad
	// KindInterestTimedOut fires when an outstanding Interest's
	// lifetime has been exceeded without a matching answer.
	KindInterestTimedOut
)

// UpcallResult is what an Action's callback returns to direct further
// library behavior.
type UpcallResult int

const (
	ResultOK UpcallResult = iota
	ResultErr
	// ResultReexpress causes the triggering Interest to be resent
	// immediately, byte-identical to its prior transmission.
	ResultReexpress
	// ResultInterestConsumed, returned from a KindInterest upcall,
	// tells the dispatcher to report KindConsumedInterest to every
	// shallower filter match on the same message.
	ResultInterestConsumed
	// ResultVerify, returned from a KindContentUnverified upcall,
	// triggers a key fetch and parks the triggering Interest.
	ResultVerify
)

// UpcallInfo is the information passed to an Action's callback: the
// owning Handle, the raw message bytes, the matched component count,
// and, for content and timeout upcalls, the client's Interest record.
// No parsed form of the message is included; Msg holds only the raw
// bytes.
type UpcallInfo struct {
	Handle        *Handle
	Kind          UpcallKind
	Msg           []byte
	MatchedComps  int
	PubInterest   *Interest // the client's own outstanding Interest, if any
	Data          any       // user data supplied at registration
}

// ActionFunc is the callback a client registers: express_interest's and
// set_interest_filter's "action" parameter (§3).
type ActionFunc func(info *UpcallInfo) UpcallResult

// Action is an upcall capability: a callback plus optional user data,
// reference counted (§3, §9). Every registry slot and every Interest
// record referencing it holds one share; the last Release triggers
// KindFinal exactly once.
type Action struct {
	fn   ActionFunc
	data any
	refs int
}

// NewAction returns an Action with one implicit reference, held by
// whichever call (ExpressInterest or SetInterestFilter) is about to
// install it.
func NewAction(fn ActionFunc, data any) *Action {
	return &Action{fn: fn, data: data, refs: 1}
}

// Retain adds one reference, for a second registry slot or Interest
// record that comes to share this capability.
func (a *Action) Retain() *Action {
	if a == nil {
		return nil
	}
	a.refs++
	return a
}

// Release drops one reference. When the count reaches zero, the
// callback is invoked once with KindFinal and the capability is spent;
// callers must not Retain or invoke it afterward.
func (a *Action) Release(h *Handle) {
	if a == nil {
		return
	}
	a.refs--
	if a.refs > 0 {
		return
	}
	a.fn(&UpcallInfo{Handle: h, Kind: KindFinal, Data: a.data})
}

// invoke calls the callback directly, without touching the reference
// count (every Kind besides Final is just a call, not a release).
func (a *Action) invoke(info *UpcallInfo) UpcallResult {
	if a == nil || a.fn == nil {
		return ResultOK
	}
	info.Data = a.data
	return a.fn(info)
}
