// Package errreport implements the error-reporter facade: a pluggable
// sink for non-fatal runtime errors (queue publish failures, processor
// exceptions, admin command errors) with a bounded, insertion-ordered
// history and a copy-on-write listener list, so listeners run without the
// reporter's lock held (each still runs inline on the reporting goroutine).
package errreport

import (
	"sync"
	"time"

	"github.com/cuemby/mongoose/pkg/log"
	"github.com/rs/zerolog"
)

// Severity classifies a reported event.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ReportedEvent is one entry in the reporter's bounded history.
type ReportedEvent struct {
	Severity  Severity
	Source    string // group/agent/component name that raised it
	Message   string
	Err       error
	Timestamp time.Time
}

// Listener receives every reported event on the reporting goroutine. It
// must not block.
type Listener func(ReportedEvent)

// listenerEntry gives each registration its own identity so a single
// listener func registered twice can be removed independently.
type listenerEntry struct {
	fn Listener
}

const defaultHistoryLimit = 100

// Reporter is the error-reporter facade. One instance is created per
// MongooseServer; the package has no process-wide default instance.
type Reporter struct {
	mu        sync.Mutex
	listeners []*listenerEntry // copy-on-write
	history   []ReportedEvent
	limit     int
	logger    zerolog.Logger
}

// New creates a Reporter with the default bounded history of 100 events.
func New() *Reporter {
	return &Reporter{
		limit:  defaultHistoryLimit,
		logger: log.WithComponent("errreport"),
	}
}

// AddListener registers a listener and returns a removal func that
// detaches exactly that registration. Funcs are not comparable in Go, so
// the returned closure is the removal token. Safe to call while Report is
// in progress on another goroutine.
func (r *Reporter) AddListener(l Listener) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &listenerEntry{fn: l}
	next := make([]*listenerEntry, len(r.listeners)+1)
	copy(next, r.listeners)
	next[len(r.listeners)] = e
	r.listeners = next

	return func() { r.removeListener(e) }
}

func (r *Reporter) removeListener(e *listenerEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]*listenerEntry, 0, len(r.listeners))
	for _, cur := range r.listeners {
		if cur != e {
			next = append(next, cur)
		}
	}
	r.listeners = next
}

// ClearListeners detaches every registered listener at once; MongooseServer
// uses it on final tearDown.
func (r *Reporter) ClearListeners() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = nil
}

// Report records the event in the bounded history and fans it out to every
// registered listener on the calling goroutine. Never blocks on I/O beyond
// what a listener itself does.
func (r *Reporter) Report(ev ReportedEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	r.mu.Lock()
	r.history = append(r.history, ev)
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	listeners := r.listeners
	r.mu.Unlock()

	logEvent(r.logger, ev)

	for _, l := range listeners {
		l.fn(ev)
	}
}

// Recent returns up to limit most-recent events in insertion order. A limit
// <= 0 returns the full bounded history.
func (r *Reporter) Recent(limit int) []ReportedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.history) {
		limit = len(r.history)
	}
	out := make([]ReportedEvent, limit)
	copy(out, r.history[len(r.history)-limit:])
	return out
}

func logEvent(logger zerolog.Logger, ev ReportedEvent) {
	le := logger.Info()
	switch ev.Severity {
	case Warning:
		le = logger.Warn()
	case Error, Critical:
		le = logger.Error()
	}
	le = le.Str("source", ev.Source).Str("severity", ev.Severity.String())
	if ev.Err != nil {
		le = le.Err(ev.Err)
	}
	le.Msg(ev.Message)
}
