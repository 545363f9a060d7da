// Package events defines the messages pushed to dashboard browsers over the
// live-update WebSocket.
package events

import (
	"time"

	"bikepulse/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnection greets a client right after it registers.
	MessageTypeConnection MessageType = "connection"

	// MessageTypeDatasetReloaded announces that the rental tables changed on disk
	// and were loaded again. Browsers refresh the page.
	MessageTypeDatasetReloaded MessageType = "dataset:reloaded"

	// MessageTypeDatasetError announces that a reload was attempted and failed.
	MessageTypeDatasetError MessageType = "dataset:error"
)

// Message is the envelope of every frame sent to a browser.
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// NewMessage stamps data with the current time.
func NewMessage(t MessageType, data interface{}, traceID string) Message {
	return Message{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TraceID:   traceID,
	}
}

// Connection is the payload of MessageTypeConnection.
type Connection struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

// DatasetReloaded is the payload of MessageTypeDatasetReloaded.
type DatasetReloaded struct {
	Fingerprint string            `json:"fingerprint"`
	DailyRows   int               `json:"daily_rows"`
	HourlyRows  int               `json:"hourly_rows"`
	Bounds      *domain.DateRange `json:"bounds,omitempty"`
}

// DatasetError is the payload of MessageTypeDatasetError.
type DatasetError struct {
	Error string `json:"error"`
}
