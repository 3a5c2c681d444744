// Package idle implements the pluggable idle strategies an agent runs
// between doWork cycles: BusySpin, Yielding, Sleeping, and Backoff. Each
// satisfies the Strategy interface's two-method contract (idle(workCount),
// reset()).
package idle

import (
	"runtime"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Strategy governs CPU usage between an agent's doWork cycles. When
// workCount is > 0 the strategy must Reset; when it is <= 0 the strategy
// may spin, yield, or sleep.
type Strategy interface {
	Idle(workCount int)
	Reset()
}

// BusySpin never sleeps or yields; lowest latency, highest CPU usage.
// Grounded on spin.Wait, the same CPU-pause primitive
// code.hybscloud.com/lfq spins on internally while retrying a full queue —
// an agent idling between doWork cycles and a producer retrying a full
// queue share one spin primitive.
type BusySpin struct {
	sw spin.Wait
}

func (s *BusySpin) Idle(workCount int) {
	if workCount > 0 {
		s.Reset()
		return
	}
	s.sw.Once()
}

func (s *BusySpin) Reset() { s.sw = spin.Wait{} }

// Yielding calls runtime.Gosched() between cycles instead of busy-spinning.
type Yielding struct{}

func (Yielding) Idle(workCount int) {
	if workCount > 0 {
		return
	}
	runtime.Gosched()
}

func (Yielding) Reset() {}

// Sleeping parks the goroutine for a fixed duration on every idle cycle.
type Sleeping struct {
	Duration time.Duration
}

func (s Sleeping) Idle(workCount int) {
	if workCount > 0 {
		return
	}
	time.Sleep(s.Duration)
}

func (Sleeping) Reset() {}

// Backoff escalates from spin to yield to parking, using
// code.hybscloud.com/iox's Backoff directly as the retry policy — adopted
// rather than reimplemented because it is the ecosystem's own adaptive
// backoff used for the identical "retry, escalate, reset on success"
// pattern when a producer retries a full queue.
type Backoff struct {
	b iox.Backoff
}

func (s *Backoff) Idle(workCount int) {
	if workCount > 0 {
		s.Reset()
		return
	}
	s.b.Wait()
}

func (s *Backoff) Reset() { s.b.Reset() }
