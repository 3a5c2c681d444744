// Package admin is a small synchronous command dispatcher; it never
// touches agent internals directly and is safe to call from any
// goroutine, including cmd/mongoosectl's cobra handlers.
package admin
