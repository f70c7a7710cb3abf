// Package protocol owns the request/response data model for the omega
// trading gateway.
//
// Ownership boundary:
// - request and response kind registries
// - request header stamping contract
// - typed request and response payloads with validation
// - the Codec boundary between payloads and wire frames
package protocol
