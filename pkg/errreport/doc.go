/*
Package errreport implements the error-reporter facade.

Hot paths (queue offer failures, processor panics/exceptions) never
propagate across agent boundaries. Instead they call Reporter.Report, which
appends to a bounded, insertion-ordered history (default 100 entries),
forwards to every registered listener, and writes through to pkg/log — a
"report and continue" contract for transient errors instead of
steady-state status.

One Reporter is constructed with each MongooseServer and its listeners are
cleared when the server stops; it is passed down explicitly to every
publisher, processor group, and the scheduler rather than reached for as a
package-level singleton.
*/
package errreport
