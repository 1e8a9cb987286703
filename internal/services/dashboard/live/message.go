// Package live pushes dashboard stat changes to connected browsers over
// websockets.
package live

import "time"

// MessageType identifies a server message.
type MessageType string

const (
	// MessageSnapshot carries every current value; it is the first message
	// a client receives.
	MessageSnapshot MessageType = "snapshot"
	// MessageStatUpdate carries one changed value.
	MessageStatUpdate MessageType = "stat_update"
)

// Message is the JSON frame sent to browsers.
type Message struct {
	Type      MessageType `json:"type"`
	Key       string      `json:"key,omitempty"`
	Value     any         `json:"value,omitempty"`
	Values    any         `json:"values,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Snapshot builds a snapshot message.
func Snapshot(values any, at time.Time) Message {
	return Message{Type: MessageSnapshot, Values: values, Timestamp: at.UTC()}
}

// StatUpdate builds a stat_update message.
func StatUpdate(key string, value any, at time.Time) Message {
	return Message{Type: MessageStatUpdate, Key: key, Value: value, Timestamp: at.UTC()}
}
