package engine

import "encoding/json"

// Key is a JSON-serializable signature of a task's inputs, outputs, and
// command parameters. Producers must emit stable element ordering; equality
// is defined as JSON string equality, not deep structural comparison, so
// that it matches exactly what a persisted cache file round-trips.
type Key []any

// Marshal renders k as canonical JSON. A nil Key marshals as "null", which
// never equals any non-nil key's encoding.
func (k Key) Marshal() (string, error) {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Equal reports whether a and b serialize to identical JSON strings. Either
// may be nil; two nil keys are not considered equal, since a nil key means
// "no cached key was ever recorded".
func Equal(a, b Key) bool {
	if a == nil || b == nil {
		return false
	}
	sa, err := a.Marshal()
	if err != nil {
		return false
	}
	sb, err := b.Marshal()
	if err != nil {
		return false
	}
	return sa == sb
}

// KeyFromCacheValue reconstructs a Key from a previously json.Unmarshal-ed
// value (an []any, as produced by decoding a cache file into map[string]any).
func KeyFromCacheValue(v any) Key {
	if v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return Key(arr)
}
