package reconcile

import (
	"sort"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/common"
)

// MissingPolicy decides how a record represents fields that never received a
// value. The request path omits the key; the batch path writes the explicit
// sentinel. One merge implementation serves both.
type MissingPolicy int

const (
	// OmitMissing leaves unpopulated fields out of the record entirely.
	OmitMissing MissingPolicy = iota
	// SentinelMissing fills every destination column the record lacks with
	// the "not available" sentinel.
	SentinelMissing
)

// Record is a canonical candidate record: a mapping from whitelisted field
// names to values. Keys outside the static whitelist are dropped silently.
type Record struct {
	fields map[string]string
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{fields: map[string]string{}}
}

// Set stores value under key. Unknown keys and empty values are ignored;
// missing-ness is represented by the policy, not by empty strings.
func (r Record) Set(key, value string) {
	if value == "" || !constants.IsCandidateColumn(key) {
		return
	}
	r.fields[key] = value
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Delete removes key from the record.
func (r Record) Delete(key string) {
	delete(r.fields, key)
}

// Has reports whether key holds a usable value (set and not the sentinel).
func (r Record) Has(key string) bool {
	v, ok := r.fields[key]
	return ok && v != constants.NotAvailable
}

// Len returns the number of populated fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Fields returns a copy of the field map.
func (r Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Columns returns the populated field names in deterministic order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r.fields))
	for k := range r.fields {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// FilterToSchema restricts the record to the destination schema. columns is
// the externally supplied set of valid destination columns. Under
// SentinelMissing, whitelisted destination columns the record lacks are
// filled with the sentinel. A result with no populated destination field is
// a schema mismatch, never a silent success.
func (r Record) FilterToSchema(columns map[string]struct{}, policy MissingPolicy) (Record, error) {
	out := NewRecord()
	populated := 0
	for k, v := range r.fields {
		if _, ok := columns[k]; !ok {
			continue
		}
		out.fields[k] = v
		populated++
	}
	if populated == 0 {
		return Record{}, common.ErrSchemaMismatch
	}
	if policy == SentinelMissing {
		for _, k := range constants.CandidateColumns {
			if _, inSchema := columns[k]; !inSchema {
				continue
			}
			if _, set := out.fields[k]; !set {
				out.fields[k] = constants.NotAvailable
			}
		}
	}
	return out, nil
}
