//go:build linux

package agent

import "runtime"

func lockOSThread() {
	runtime.LockOSThread()
}
