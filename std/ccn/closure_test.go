package ccn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionReleaseFiresFinalOnLastShare(t *testing.T) {
	var kinds []UpcallKind
	a := NewAction(func(info *UpcallInfo) UpcallResult {
		kinds = append(kinds, info.Kind)
		return ResultOK
	}, nil)

	a.Retain()
	a.Release(nil)
	assert.Empty(t, kinds, "Release should not fire while a share remains")

	a.Release(nil)
	assert.Equal(t, []UpcallKind{KindFinal}, kinds)
}

func TestActionReleaseFiresFinalExactlyOnce(t *testing.T) {
	finals := 0
	a := NewAction(func(info *UpcallInfo) UpcallResult {
		if info.Kind == KindFinal {
			finals++
		}
		return ResultOK
	}, nil)

	a.Release(nil)
	assert.Equal(t, 1, finals)
}

func TestActionInvokeDoesNotTouchRefcount(t *testing.T) {
	calls := 0
	a := NewAction(func(info *UpcallInfo) UpcallResult {
		calls++
		return ResultOK
	}, nil)

	a.invoke(&UpcallInfo{Kind: KindInterest})
	a.invoke(&UpcallInfo{Kind: KindInterest})
	assert.Equal(t, 2, calls)

	a.Release(nil)
	assert.Equal(t, 3, calls, "Release's KindFinal call should still fire")
}

func TestActionDataCarriesThroughFinal(t *testing.T) {
	var gotData any
	a := NewAction(func(info *UpcallInfo) UpcallResult {
		gotData = info.Data
		return ResultOK
	}, "payload")
	a.Release(nil)
	assert.Equal(t, "payload", gotData)
}

func TestNilActionIsSafeToInvokeAndRelease(t *testing.T) {
	var a *Action
	assert.Equal(t, ResultOK, a.invoke(&UpcallInfo{}))
	assert.NotPanics(t, func() { a.Release(nil) })
}
