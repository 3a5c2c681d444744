//go:build linux

package agent

import (
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// pinCurrentThread best-effort pins the calling OS thread to coreID.
// Failure is logged and the agent starts anyway.
//
// Pinning an individual goroutine's OS thread requires locking the
// goroutine to its thread first, which this function does and never
// undoes, so the caller must be a goroutine that stays on that thread for
// its whole life (Agent.run is one).
func pinCurrentThread(coreID *int, logger zerolog.Logger) {
	if coreID == nil {
		return
	}

	lockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(*coreID)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logger.Warn().Err(err).Int("core", *coreID).Msg("CPU pin failed, continuing unpinned")
		return
	}
	logger.Debug().Int("core", *coreID).Msg("agent thread pinned")
}
