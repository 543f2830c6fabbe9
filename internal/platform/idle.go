package platform

import "worktimer/internal/core/activity"

// NewIdleProvider returns the idle checker for the running OS. Unsupported
// systems return a checker that always fails with
// activity.ErrIdleUnsupported.
func NewIdleProvider() activity.IdleChecker {
	return newIdleProvider()
}
