package board

import (
	"encoding/json"

	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// op is one encoded write of a pending patch; a nil value deletes
type op struct {
	path  realtime.Path
	value json.RawMessage
}

// patch is an optimistic write waiting for the store to acknowledge it
type patch struct {
	seq uint64
	ops []op
}

func encode(updates realtime.Updates) ([]op, error) {
	ops := make([]op, 0, len(updates))
	for p, v := range updates {
		o := op{path: p}
		if v != nil {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			o.value = raw
		}
		ops = append(ops, o)
	}
	return ops, nil
}

type records map[string]json.RawMessage

// mirror is the raw record state of every collection, keyed like the store
type mirror map[realtime.Collection]records

func (m mirror) clone() mirror {
	out := make(mirror, len(m))
	for c, recs := range m {
		cp := make(records, len(recs))
		for k, v := range recs {
			cp[k] = v
		}
		out[c] = cp
	}
	return out
}

func (m mirror) collection(c realtime.Collection) records {
	recs, ok := m[c]
	if !ok {
		recs = make(records)
		m[c] = recs
	}
	return recs
}

// apply replays ops with the same semantics as the store: field writes on a
// missing record are dropped.
func (m mirror) apply(uid types.UserID, ops []op) {
	for _, o := range ops {
		p := o.path
		if p.UserID != uid {
			continue
		}
		recs := m.collection(p.Collection)

		switch p.Level() {
		case realtime.LevelCollection:
			m[p.Collection] = make(records)
		case realtime.LevelRecord:
			if o.value == nil {
				delete(recs, p.Key)
			} else {
				recs[p.Key] = o.value
			}
		case realtime.LevelField:
			raw, ok := recs[p.Key]
			if !ok {
				continue
			}
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(raw, &obj); err != nil {
				continue
			}
			if o.value == nil {
				delete(obj, p.Field)
			} else {
				obj[p.Field] = o.value
			}
			updated, err := json.Marshal(obj)
			if err != nil {
				continue
			}
			recs[p.Key] = updated
		}
	}
}
