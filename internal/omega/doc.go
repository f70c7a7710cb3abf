// Package omega owns the client runtime for the omega trading gateway.
//
// Ownership boundary:
// - the connection bridge relaying frames between gateway and workers
// - the request sender, its builders, and the outbound queue
// - the response receiver and handler dispatch
// - the client facade and daemon service wiring
//
// One Connection runs three long-lived goroutine groups: the relay
// pumps, the request sender worker, and the response receiver worker.
// Each socket is used by exactly one goroutine per direction.
package omega
