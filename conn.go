// Package hapble provides helpers for a HomeKit Accessory Protocol
// transport running over BLE GATT: UUID normalization, characteristic
// value (de)serialization, and a disconnect/timeout guard for in-flight
// transport operations.
package hapble

// Reason tells why a guarded transport operation was aborted.
type Reason string

// Abort reasons reported to a watcher's callback.
const (
	Disconnected Reason = "Disconnected"
	Timeout      Reason = "Timeout"
)

// Conn is the part of a peer connection a Watcher observes. The
// transport layer implements it; a watcher borrows the connection and
// never owns it.
type Conn interface {
	// OnDisconnect registers f to be invoked once if the peer
	// disconnects, with the transport's reason or an empty string.
	// The returned cancel removes the registration without invoking f.
	OnDisconnect(f func(reason Reason)) (cancel func())
}
