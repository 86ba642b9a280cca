package models

import (
	"context"

	json "github.com/goccy/go-json"
)

// SendParams is the argument bag of an intercepted send call. A zero
// GroupID/UserID means the field was absent from the call.
type SendParams struct {
	Message     Message `json:"message,omitempty"`
	GroupID     int64   `json:"group_id,omitempty"`
	UserID      int64   `json:"user_id,omitempty"`
	MessageType string  `json:"message_type,omitempty"`
	AutoEscape  bool    `json:"auto_escape,omitempty"`
}

// SendFunc is the send primitive the interceptor wraps: it receives the
// API name and its params and returns the upstream's raw response.
type SendFunc func(ctx context.Context, api string, params *SendParams) (json.RawMessage, error)
