// Package lock serializes stock mutations per material across requests
// (LocalLocker) or across instances (RedisLocker).
package lock

import (
	"context"
	"errors"
	"sort"
)

var ErrNotObtained = errors.New("could not obtain stock lock, try again")

// Locker acquires every key or none. The returned release func must be
// called exactly once.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// normalize sorts and dedupes keys so that every caller takes them in the
// same order and two commits can never wait on each other in a cycle.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
