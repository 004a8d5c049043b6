package psx

import "errors"

var (
	// ErrNoAcknowledge means the controller did not pulse ACK within the
	// bounded wait after a byte exchange. This is the usual disconnect
	// signal: an empty port reads an idle-high data line and never acks.
	ErrNoAcknowledge = errors.New("psx: no acknowledge from controller")

	// ErrProtocol means a response frame was structurally invalid: missing
	// ready byte or shorter than its header advertised.
	ErrProtocol = errors.New("psx: malformed response frame")

	// ErrUnknownControllerType means the mode byte is not in the type table.
	// Non-fatal: the button bitmap is still decoded, since that part of the
	// protocol is shared by every known type.
	ErrUnknownControllerType = errors.New("psx: unknown controller type")

	// ErrNegotiationFailed means the config-mode sequence did not leave the
	// controller in analog mode after the configured number of attempts.
	ErrNegotiationFailed = errors.New("psx: controller negotiation failed")

	// ErrUnknownBackend is returned by OpenBackend for unregistered names.
	ErrUnknownBackend = errors.New("psx: unknown transport backend")
)
