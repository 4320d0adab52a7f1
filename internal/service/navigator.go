package service

import (
	"errors"
	"sync"
)

// ErrStaleNavigation is returned when a newer navigation was issued while a
// listing was in flight. The stale result must not be applied.
var ErrStaleNavigation = errors.New("stale navigation")

// Navigator tracks the folder a player is looking at. Each navigation takes
// a monotonically increasing request id; only the latest id may commit.
type Navigator struct {
	mu     sync.Mutex
	latest uint64
	folder string
}

// Begin issues the id of a new navigation, superseding all earlier ones.
func (n *Navigator) Begin() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.latest++
	return n.latest
}

// Commit applies a navigation result if requestID is still the latest and
// runs apply under the same lock.
func (n *Navigator) Commit(requestID uint64, folder string, apply func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if requestID != n.latest {
		return ErrStaleNavigation
	}
	n.folder = folder
	if apply != nil {
		apply()
	}
	return nil
}

// Folder returns the last committed folder.
func (n *Navigator) Folder() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.folder
}

// Latest returns the most recently issued request id.
func (n *Navigator) Latest() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.latest
}
