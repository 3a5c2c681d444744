// Package source provides two example event sources: MemorySource
// (in-process, externally pushed) and FileSource (worker-driven, tailing
// a file under a configurable read strategy). Both satisfy
// pkg/flow.Source plus the optional lifecycle and doWork hooks
// pkg/server recognizes.
package source

import (
	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/publisher"
)

// ReadStrategy selects where a FileSource begins reading relative to
// existing file content.
type ReadStrategy int

const (
	Earliest ReadStrategy = iota
	Commited
	Latest
	OnceEarliest
	OnceLatest
)

func (s ReadStrategy) String() string {
	switch s {
	case Earliest:
		return "EARLIEST"
	case Commited:
		return "COMMITED"
	case Latest:
		return "LATEST"
	case OnceEarliest:
		return "ONCE_EARLIEST"
	case OnceLatest:
		return "ONCE_LATEST"
	default:
		return "UNKNOWN"
	}
}

// MemorySource is an in-process source driven entirely by calls to Offer;
// it never runs its own doWork. Broadcast-only: a single implicit
// ON_EVENT key reaches every subscribed consumer agent.
type MemorySource struct {
	name          string
	cacheEventLog bool
	pub           *publisher.EventToQueuePublisher
	logger        zerolog.Logger
}

// NewMemorySource creates a MemorySource named name. cacheEventLog governs
// whether events offered before startComplete are cached and replayed on
// startComplete; when false they are dispatched at once to whatever target
// queues are bound at that moment.
func NewMemorySource(name string, cacheEventLog bool) *MemorySource {
	return &MemorySource{name: name, cacheEventLog: cacheEventLog, logger: log.WithSource(name)}
}

func (s *MemorySource) SetEventToQueuePublisher(pub *publisher.EventToQueuePublisher) {
	s.pub = pub
	s.pub.SetCacheEventLog(s.cacheEventLog)
}

// Subscribe and UnSubscribe are no-ops: MemorySource is a broadcast
// source, always publishing to every bound target queue regardless of
// subscription state.
func (s *MemorySource) Subscribe(events.SubscriptionKey)   {}
func (s *MemorySource) UnSubscribe(events.SubscriptionKey) {}

func (s *MemorySource) Start() error         { return nil }
func (s *MemorySource) StartComplete() error { s.pub.MarkStartComplete(); return nil }
func (s *MemorySource) Stop() error          { return nil }
func (s *MemorySource) TearDown() error      { return nil }

// Offer publishes an event through the bound publisher on the calling
// goroutine. MemorySource has no doWork, so MongooseServer runs it on no
// agent; the target queues behind the publisher are single-producer, so
// Offer is safe from only one goroutine at a time.
func (s *MemorySource) Offer(e events.Event) {
	if s.pub == nil {
		s.logger.Warn().Msg("offer called before publisher was wired")
		return
	}
	s.pub.Publish(e)
}
