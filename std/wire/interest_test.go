package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterestBasic(t *testing.T) {
	name, err := BuildName([][]byte{[]byte("parc"), []byte("ping")}, false)
	require.NoError(t, err)

	c := NewCharbuf()
	c.AppendOpen(TagInterest)
	c.Append(name)
	require.NoError(t, c.AppendBlob(TagNonce, []byte{9, 9, 9, 9}))
	c.AppendCloser()

	comps := NewIndexbuf()
	p, err := ParseInterest(c.Bytes(), comps)
	require.NoError(t, err)

	assert.Equal(t, name, p.Name())
	assert.Equal(t, -1, p.PrefixComps)
	assert.Equal(t, 2, comps.Len())
	assert.Equal(t, []byte{9, 9, 9, 9}, leafValue(p.Msg, p.BNonce))
}

func TestParseInterestWithNameComponentCount(t *testing.T) {
	name, err := BuildName([][]byte{[]byte("parc"), []byte("csl"), []byte("ping")}, false)
	require.NoError(t, err)

	c := NewCharbuf()
	c.AppendOpen(TagInterest)
	c.Append(name)
	require.NoError(t, c.AppendBlob(TagNameComponentCount, encodeUint32(2)))
	c.AppendCloser()

	p, err := ParseInterest(c.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.PrefixComps)
}

func TestParseInterestRejectsWrongTopLevel(t *testing.T) {
	c := NewCharbuf()
	c.AppendOpen(TagContentObject)
	c.AppendCloser()

	_, err := ParseInterest(c.Bytes(), nil)
	assert.ErrorIs(t, err, ErrWrongTopLevel)
}

func TestParseInterestRejectsTruncated(t *testing.T) {
	name, err := BuildName([][]byte{[]byte("parc")}, false)
	require.NoError(t, err)

	c := NewCharbuf()
	c.AppendOpen(TagInterest)
	c.Append(name)
	c.AppendCloser()

	msg := c.Bytes()
	_, err = ParseInterest(msg[:len(msg)-2], nil)
	assert.Error(t, err)
}
