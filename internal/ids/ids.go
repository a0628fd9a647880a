// Package ids mints sortable entity identifiers.
package ids

import "github.com/segmentio/ksuid"

// New returns a new ksuid string. KSUIDs sort lexicographically by creation
// time, which keeps insertion order stable as a pagination tiebreaker.
func New() string {
	return ksuid.New().String()
}
