package ccnlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevelRoundTrip(t *testing.T) {
	cases := map[string]Level{
		"TRACE": LevelTrace,
		"DEBUG": LevelDebug,
		"INFO":  LevelInfo,
		"WARN":  LevelWarn,
		"ERROR": LevelError,
		"FATAL": LevelFatal,
	}
	for s, want := range cases {
		got, err := ParseLevel(s)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
	}
}

func TestParseLevelInvalid(t *testing.T) {
	_, err := ParseLevel("NOPE")
	assert.Error(t, err)
}

func TestLevelStringUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Level(99).String())
}
