//go:build !linux

package agent

import "github.com/rs/zerolog"

// pinCurrentThread is a stub on non-Linux platforms, matching the
// build-tag-per-architecture stub convention code.hybscloud.com/lfq uses
// for its own platform-specific internals (internal/asm/stubs_generic.go).
// CPU pinning is a Linux-only affordance here; elsewhere the agent simply
// runs unpinned.
func pinCurrentThread(coreID *int, logger zerolog.Logger) {
	if coreID == nil {
		return
	}
	logger.Debug().Int("core", *coreID).Msg("CPU pinning unsupported on this platform, continuing unpinned")
}
