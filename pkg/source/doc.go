/*
Package source contains two example event sources — collaborators of the
dispatch core, not part of it:

MemorySource is purely push-driven: callers invoke Offer directly and it
never runs its own doWork. It is broadcast-only, so Subscribe/UnSubscribe
are no-ops.

FileSource is worker-driven: MongooseServer places it on an agent and
drives it through doWork, where it tails a plain-text file one line per
event under one of five read strategies (EARLIEST, COMMITED, LATEST,
ONCE_EARLIEST, ONCE_LATEST). COMMITED persists its offset to a sibling
"<path>.readPointer" file on Stop so a later run resumes where the last
one left off. ONCE_LATEST seeks to EOF once and never emits appends
either — surprising, but long-standing behavior that downstream users
rely on, so it is preserved rather than fixed.
*/
package source
