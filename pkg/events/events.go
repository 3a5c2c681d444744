// Package events defines the wire-level data model shared by every other
// package in MongooseServer: the opaque Event value, the NamedFeedEvent
// envelope a source may wrap it in, and the subscription-key types that
// select which queue carries events to which processor.
//
// Nothing in this package touches a goroutine, a lock, or I/O — it is pure
// data for the rest of the system to share.
package events

import "fmt"

// Event is an opaque value carried end-to-end through the queue fabric.
// Sources publish whatever payload type they produce; processors type-assert
// it back on receipt. A nil Event is a documented no-op for Publish.
type Event = any

// CallbackTypeTag distinguishes the default onEvent callback from named
// custom callbacks a processor may expose.
type CallbackTypeTag int

const (
	// OnEvent is the default callback type used by broadcast sources and by
	// any subscription that does not request a custom callback.
	OnEvent CallbackTypeTag = iota
	// Custom marks a subscription bound to a named callback other than
	// onEvent; the name is carried in SubscriptionKey.Name.
	Custom
)

func (t CallbackTypeTag) String() string {
	switch t {
	case OnEvent:
		return "ON_EVENT"
	case Custom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// SourceKey identifies an event source by its registered name.
type SourceKey struct {
	Name string
}

func (k SourceKey) String() string { return k.Name }

// SubscriptionKey is (sourceName, callbackType). Two keys are equal iff both
// fields are equal; for Custom callbacks, Name must also match.
type SubscriptionKey struct {
	Source   string
	Callback CallbackTypeTag
	Name     string // populated only when Callback == Custom
}

// OnEventKey builds the implicit broadcast-style key used by sources that do
// not require explicit custom callback routing.
func OnEventKey(source string) SubscriptionKey {
	return SubscriptionKey{Source: source, Callback: OnEvent}
}

// CustomKey builds a named-callback subscription key.
func CustomKey(source, name string) SubscriptionKey {
	return SubscriptionKey{Source: source, Callback: Custom, Name: name}
}

// String renders a key as "source/ON_EVENT" or "source/CUSTOM:name", usable
// wherever a key needs a stable label (logs, metrics, map debugging).
func (k SubscriptionKey) String() string {
	if k.Callback == Custom {
		return fmt.Sprintf("%s/CUSTOM:%s", k.Source, k.Name)
	}
	return fmt.Sprintf("%s/%s", k.Source, k.Callback)
}

// NamedFeedEvent is the optional envelope a source's publisher wraps a raw
// event in when EventWrapStrategy requests it.
type NamedFeedEvent struct {
	FeedName    string
	Sequence    uint64
	DataVersion uint64
	Data        Event
	EventTime   int64 // unix nanoseconds; set by the publisher at wrap time
}

// EventWrapStrategy selects whether EventToQueuePublisher wraps raw events
// in a NamedFeedEvent envelope before dispatch.
type EventWrapStrategy int

const (
	// NoWrap dispatches the raw event unchanged.
	NoWrap EventWrapStrategy = iota
	// WrapWithNamedEvent wraps every dispatched event in a NamedFeedEvent.
	WrapWithNamedEvent
)

// SlowConsumerStrategy selects the publisher's behavior when a target queue
// is full.
type SlowConsumerStrategy int

const (
	// Backoff retries the offer in a bounded spin before giving up.
	Backoff SlowConsumerStrategy = iota
	// Drop discards the event for the one full target and reports it.
	Drop
	// Disconnect detaches the target queue permanently and reports it.
	Disconnect
	// Exit raises a fatal condition; used only for targets that must never
	// fall behind.
	Exit
)

func (s SlowConsumerStrategy) String() string {
	switch s {
	case Backoff:
		return "BACKOFF"
	case Drop:
		return "DROP"
	case Disconnect:
		return "DISCONNECT"
	case Exit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}
