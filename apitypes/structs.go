// Package apitypes holds the wire DTOs of the event stream: newline-delimited
// JSON messages pushed by the server after the auth handshake.
package apitypes

import "fmt"

// StreamError represents an RFC 7807 (problem+json) error response.
type StreamError struct {
	// Status is the HTTP-style status code (e.g., 400, 401, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e StreamError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// Message kinds carried in StreamMessage.Type.
const (
	MessageHello  = "hello"
	MessageEvent  = "event"
	MessageAnalog = "analog"
	MessageStatus = "status"
)

// StreamMessage is the envelope for every server-pushed message. Only the
// fields of the named kind are populated.
type StreamMessage struct {
	Type string `json:"type"`

	// hello
	Server     string `json:"server,omitempty"`
	Version    string `json:"version,omitempty"`
	Controller string `json:"controller,omitempty"`

	// event
	Button  string `json:"button,omitempty"`
	Pressed *bool  `json:"pressed,omitempty"`

	// analog
	LeftX  *uint8 `json:"leftX,omitempty"`
	LeftY  *uint8 `json:"leftY,omitempty"`
	RightX *uint8 `json:"rightX,omitempty"`
	RightY *uint8 `json:"rightY,omitempty"`

	// status
	Connected *bool `json:"connected,omitempty"`
}

// Hello builds the greeting sent once per connection.
func Hello(version, controller string) StreamMessage {
	return StreamMessage{Type: MessageHello, Server: "psxpad", Version: version, Controller: controller}
}

// Event builds a button transition message.
func Event(button string, pressed bool) StreamMessage {
	return StreamMessage{Type: MessageEvent, Button: button, Pressed: &pressed}
}

// Analog builds a stick reading message.
func Analog(lx, ly, rx, ry uint8) StreamMessage {
	return StreamMessage{Type: MessageAnalog, LeftX: &lx, LeftY: &ly, RightX: &rx, RightY: &ry}
}

// Status builds a connection status message.
func Status(connected bool, controller string) StreamMessage {
	return StreamMessage{Type: MessageStatus, Connected: &connected, Controller: controller}
}
