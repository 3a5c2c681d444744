/*
Package server implements MongooseServer: the single component that owns
every other one. It registers sources, sinks, services, and processor
groups; builds one agent per configured agent name (sharing agents across
sources that name the same one); and enforces boot and shutdown ordering.

Dependency injection is non-reflective: a consumer that needs other
services implements Injectable, and Init calls
Wire(*Registry) on every Injectable — service, source, or processor — once
every name has been registered, before any lifecycle method runs.

Processors are never exposed to the orchestrator as individually
addressable participants; they live inside their group's
ComposingEventProcessorAgent, which applies ADD_PROCESSOR commands
asynchronously through its own command inbox (pkg/processor). Start
therefore finishes the boot sequence for processors by calling
MarkStartComplete on every group, which propagates StartComplete to
whichever processors are already resident and latches the flag for ones
added later.

Fatal errors during Init unwind already-initialized services and sources
in reverse order; runtime errors from queue publish failures or processor
panics never reach here — they go to the error-reporter facade and the
offending component keeps running.
*/
package server
