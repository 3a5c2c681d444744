/*
Package idle implements the four idle strategies an agent can choose
between: BusySpin, Yielding, Sleeping, and Backoff.

Every strategy satisfies Strategy's two-method contract: Idle(workCount) is
called once per doWork cycle with the number of events that cycle
processed, and Reset clears any accumulated backoff/spin state. When
workCount is positive each strategy resets; when it is zero or negative
each may spin, yield, or sleep — each implementation enforces that rule
itself rather than leaving it to the caller.

BusySpin and Backoff are built directly on the same low-level primitives
(code.hybscloud.com/spin, code.hybscloud.com/iox) the queue fabric's
upstream library uses internally, so an agent parked between cycles and a
publisher retrying a full queue share one spin/backoff implementation
rather than two hand-rolled copies.
*/
package idle
