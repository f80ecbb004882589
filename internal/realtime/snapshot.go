package realtime

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot is a full read of the records under a path, keyed by record key
type Snapshot struct {
	Path    Path
	Records map[string]json.RawMessage
}

// Exists reports whether the snapshot holds any record
func (s Snapshot) Exists() bool {
	return len(s.Records) > 0
}

// Keys returns record keys in ascending order. Keys are time ordered, so
// this is creation order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Records))
	for k := range s.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeAll decodes every record into T in key order
func DecodeAll[T any](s Snapshot) ([]T, error) {
	out := make([]T, 0, len(s.Records))
	for _, k := range s.Keys() {
		var v T
		if err := json.Unmarshal(s.Records[k], &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", s.Path, k, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Decode decodes the single record of a record-level snapshot
func Decode[T any](s Snapshot) (T, error) {
	var v T
	raw, ok := s.Records[s.Path.Key]
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	return v, nil
}
