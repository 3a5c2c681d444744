/*
Package flow implements EventFlowManager and the broadcast/keyed
subscription semantics around it — the latter expressed through
pkg/events.SubscriptionKey rather than a separate type, since a
"broadcast" source is simply one where every consumer uses the same
OnEventKey.

RegisterEventSource wires a fresh EventToQueuePublisher into a source.
GetMappingAgent lazily creates the (source, key, consumerAgent) → TargetQueue
mapping and registers the queue as a publish target. Subscribe/UnSubscribe
forward to the source itself, which decides whether to activate or
deactivate publishing for that key.

All state lives behind a single coarse mutex: registration and subscription
changes happen off the hot publish/dispatch path (at boot and when a
processor group adds/removes a processor), so a short critical section here
never contends with an agent's doWork loop.
*/
package flow
