package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyEqualStableOrdering(t *testing.T) {
	a := Key{[]string{"g++", "-c"}, "path:abc"}
	b := Key{[]string{"g++", "-c"}, "path:abc"}
	assert.True(t, Equal(a, b))
}

func TestKeyEqualOrderSensitive(t *testing.T) {
	a := Key{"path:abc", "path:def"}
	b := Key{"path:def", "path:abc"}
	assert.False(t, Equal(a, b), "key equality is JSON-array equality, not set equality")
}

func TestKeyEqualNilNeverEqual(t *testing.T) {
	assert.False(t, Equal(nil, nil))
	assert.False(t, Equal(Key{"x"}, nil))
}

func TestKeyFromCacheValueRoundTrip(t *testing.T) {
	k := Key{[]any{"g++", "-c"}, "path:abc"}
	s, err := k.Marshal()
	assert.NoError(t, err)

	var decoded any
	assert.NoError(t, json.Unmarshal([]byte(s), &decoded))
	roundTripped := KeyFromCacheValue(decoded)
	assert.True(t, Equal(k, roundTripped))
}
