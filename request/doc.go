// Package request turns console requests into awaitable operations.
//
// The console protocol has no request identifiers. Responses are matched to
// requests purely by order: the Manager keeps a single FIFO queue and every
// response belongs to the request at its head. This only holds over a reliable,
// ordered transport such as the TCP connection in package transport, and only
// if requests are written in the order they are registered.
//
// A request is settled when it has collected the number of responses it
// expects. Record target lookups settle early with a nil result when a
// response carries no UID argument, that is how the console says the target
// does not exist.
package request
