//go:build !physx

package sys

import "unsafe"

// Stats is a snapshot of the stand-in engine.
type Stats struct {
	Live     int
	Released int
}

// Snapshot reports the number of live objects and of release calls so far.
func Snapshot() Stats {
	var s Stats
	std.locked(func() {
		s.Live = len(std.live)
		for _, n := range std.releases {
			s.Released += n
		}
	})
	return s
}

// Releases returns how many release calls p received.
func Releases(p unsafe.Pointer) int {
	var n int
	std.locked(func() { n = std.releases[p] })
	return n
}

// Alive reports whether p is a live object.
func Alive(p unsafe.Pointer) bool {
	var ok bool
	std.locked(func() { _, ok = std.live[p] })
	return ok
}
