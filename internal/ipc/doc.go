// Package ipc carries control commands between the wallshift CLI and
// wallshiftd over a Unix domain socket. The protocol is single-shot JSON:
// one request per connection, half-closed by the client, answered with one
// JSON response.
package ipc
