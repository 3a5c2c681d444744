/*
Package events defines the data model shared by every other package in
MongooseServer.

It holds no runtime logic: an opaque Event alias, the optional NamedFeedEvent
envelope a source's publisher may wrap it in, the CallbackTypeTag used to
distinguish onEvent from named custom callbacks, and the SubscriptionKey /
SourceKey pair that together select which target queue carries events to
which processor.

# Usage

	key := events.OnEventKey("orders-feed")
	custom := events.CustomKey("orders-feed", "onReconcile")

	wrapped := events.NamedFeedEvent{
		FeedName: "orders-feed",
		Sequence: 42,
		Data:     orderCreated{ID: "o-1"},
	}

Every package downstream — pkg/queue, pkg/publisher, pkg/flow, pkg/processor
— imports this package for its key and envelope types rather than redefining
them, so a SubscriptionKey built by a source and one built by a processor's
addEventFeed call compare equal.
*/
package events
